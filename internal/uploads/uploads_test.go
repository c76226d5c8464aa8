// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package uploads

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"contenthub/internal/storage"
)

var (
	pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	gifData = []byte("GIF89a\x01\x00\x01\x00")
	svgData = []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)
)

type part struct {
	field, filename string
	data            []byte
}

// buildForm encodes parts as a multipart body and parses it back the way
// net/http does.
func buildForm(c *qt.C, parts ...part) *multipart.Form {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		fw, err := w.CreateFormFile(p.field, p.filename)
		c.Assert(err, qt.IsNil)
		_, err = fw.Write(p.data)
		c.Assert(err, qt.IsNil)
	}
	c.Assert(w.Close(), qt.IsNil)

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { form.RemoveAll() })
	return form
}

func newTestProcessor(c *qt.C, maxFileSize int64) (*Processor, *storage.Disk) {
	disk, err := storage.NewDisk(filepath.Join(c.TempDir(), "uploads"), "/uploads")
	c.Assert(err, qt.IsNil)
	p := NewProcessor(disk, maxFileSize)
	p.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return p, disk
}

func TestFileName(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		original, want string
	}{
		{"Dragon Model.PNG", "1700000000000-dragon-model.png"},
		{"../../etc/passwd", "1700000000000-passwd"},
		{`C:\Users\me\pic.jpg`, "1700000000000-pic.jpg"},
		{".png", "1700000000000-file.png"},
		{"архив.zip", "1700000000000-file.zip"},
		{"weird.p$p", "1700000000000-weird.pp"},
		{"", "1700000000000-file"},
	}
	for _, tt := range tests {
		c.Check(FileName(1700000000000, tt.original), qt.Equals, tt.want, qt.Commentf("original %q", tt.original))
	}
}

func TestSaveKeepsOrder(t *testing.T) {
	c := qt.New(t)
	p, disk := newTestProcessor(c, 0)

	form := buildForm(c,
		part{"files", "one.txt", []byte("first file")},
		part{"files", "two.txt", []byte("second")},
		part{"files", "three.zip", []byte("PK\x03\x04third")},
	)
	saved, err := p.Save(context.Background(), form, Files)
	c.Assert(err, qt.IsNil)
	c.Assert(saved, qt.HasLen, 3)

	c.Assert(saved[0].OriginalName, qt.Equals, "one.txt")
	c.Assert(saved[0].Name, qt.Equals, "1700000000000-one.txt")
	c.Assert(saved[0].URL, qt.Equals, "/uploads/1700000000000-one.txt")
	c.Assert(saved[0].Size, qt.Equals, int64(len("first file")))
	c.Assert(saved[1].OriginalName, qt.Equals, "two.txt")
	c.Assert(saved[2].OriginalName, qt.Equals, "three.zip")

	data, err := os.ReadFile(filepath.Join(disk.Dir(), saved[1].Name))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "second")
}

func TestSaveCollisionBumpsTimestamp(t *testing.T) {
	c := qt.New(t)
	p, _ := newTestProcessor(c, 0)

	form := buildForm(c,
		part{"images", "a.png", pngData},
		part{"images", "a.png", pngData},
	)
	saved, err := p.Save(context.Background(), form, Images)
	c.Assert(err, qt.IsNil)
	c.Assert(saved, qt.HasLen, 2)
	c.Assert(saved[0].Name, qt.Not(qt.Equals), saved[1].Name)

	names := map[string]bool{saved[0].Name: true, saved[1].Name: true}
	c.Assert(names["1700000000000-a.png"], qt.IsTrue)
	c.Assert(names["1700000000001-a.png"], qt.IsTrue)
}

func TestSaveImageTypes(t *testing.T) {
	c := qt.New(t)
	p, _ := newTestProcessor(c, 0)

	form := buildForm(c,
		part{"images", "a.png", pngData},
		part{"images", "b.gif", gifData},
		part{"images", "c.svg", svgData},
	)
	saved, err := p.Save(context.Background(), form, Images)
	c.Assert(err, qt.IsNil)
	c.Assert(saved[0].ContentType, qt.Equals, "image/png")
	c.Assert(saved[1].ContentType, qt.Equals, "image/gif")
	c.Assert(saved[2].ContentType, qt.Equals, "image/svg+xml")
}

func TestSaveAcceptsAnyImageSubtype(t *testing.T) {
	c := qt.New(t)
	p, disk := newTestProcessor(c, 0)

	bmpData := append([]byte("BM"), make([]byte, 64)...)
	icoData := append([]byte{0x00, 0x00, 0x01, 0x00}, make([]byte, 64)...)
	form := buildForm(c,
		part{"images", "cover.bmp", bmpData},
		part{"images", "favicon.ico", icoData},
	)
	saved, err := p.Save(context.Background(), form, Images)
	c.Assert(err, qt.IsNil)
	c.Assert(saved, qt.HasLen, 2)
	c.Assert(saved[0].ContentType, qt.Equals, "image/bmp")
	c.Assert(saved[1].ContentType, qt.Equals, "image/x-icon")

	objs, err := disk.List(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(objs, qt.HasLen, 2)
}

func TestValidateRejects(t *testing.T) {
	c := qt.New(t)

	c.Run("non-image in image field", func(c *qt.C) {
		p, disk := newTestProcessor(c, 0)
		form := buildForm(c,
			part{"images", "a.png", pngData},
			part{"images", "notes.png", []byte("just some text")},
		)
		_, err := p.Save(context.Background(), form, Images)
		c.Assert(err, qt.ErrorIs, ErrUnsupportedType)

		objs, err := disk.List(context.Background())
		c.Assert(err, qt.IsNil)
		c.Assert(objs, qt.HasLen, 0)
	})

	c.Run("too many files", func(c *qt.C) {
		p, _ := newTestProcessor(c, 0)
		var parts []part
		for i := 0; i < Files.MaxFiles+1; i++ {
			parts = append(parts, part{"files", "f.bin", []byte{byte(i)}})
		}
		err := p.Validate(buildForm(c, parts...), Files)
		c.Assert(err, qt.ErrorIs, ErrTooManyFiles)
	})

	c.Run("file too large", func(c *qt.C) {
		p, _ := newTestProcessor(c, 4)
		err := p.Validate(buildForm(c, part{"files", "big.bin", []byte("12345")}), Files)
		c.Assert(err, qt.ErrorIs, ErrFileTooLarge)
	})

	c.Run("one news image", func(c *qt.C) {
		p, _ := newTestProcessor(c, 0)
		form := buildForm(c, part{"image", "a.png", pngData}, part{"image", "b.png", pngData})
		c.Assert(p.Validate(form, Image), qt.ErrorIs, ErrTooManyFiles)
	})
}

func TestSaveEmptyField(t *testing.T) {
	c := qt.New(t)
	p, _ := newTestProcessor(c, 0)

	saved, err := p.Save(context.Background(), nil, Images)
	c.Assert(err, qt.IsNil)
	c.Assert(saved, qt.HasLen, 0)

	saved, err = p.Save(context.Background(), buildForm(c, part{"files", "a.txt", []byte("a")}), Images)
	c.Assert(err, qt.IsNil)
	c.Assert(saved, qt.HasLen, 0)
}

func TestMaxRequestSize(t *testing.T) {
	c := qt.New(t)
	p := NewProcessor(nil, 10)
	c.Assert(p.MaxFileSize(), qt.Equals, int64(10))
	c.Assert(p.MaxRequestSize(Images, Files), qt.Equals, int64(formOverhead+150))
	c.Assert(NewProcessor(nil, 0).MaxFileSize(), qt.Equals, int64(DefaultMaxFileSize))
}
