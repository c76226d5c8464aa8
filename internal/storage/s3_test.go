// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewS3RequiresSettings(t *testing.T) {
	c := qt.New(t)
	_, err := NewS3(S3Config{Endpoint: "https://s3.example.com"})
	c.Assert(err, qt.IsNotNil)
}

func TestS3URL(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{
			name: "path style",
			cfg:  S3Config{Endpoint: "https://s3.example.com/", Bucket: "media", Prefix: "/uploads"},
			want: "https://s3.example.com/media/uploads/1-a.png",
		},
		{
			name: "public url",
			cfg:  S3Config{Endpoint: "https://s3.example.com", Bucket: "media", PublicURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/1-a.png",
		},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			tt.cfg.Region = "us-east-1"
			tt.cfg.AccessKey = "key"
			tt.cfg.SecretKey = "secret"
			s, err := NewS3(tt.cfg)
			c.Assert(err, qt.IsNil)

			u := s.URL("1-a.png")
			c.Assert(u, qt.Equals, tt.want)

			name, ok := s.NameFromURL(u)
			c.Assert(ok, qt.IsTrue)
			c.Assert(name, qt.Equals, "1-a.png")

			_, ok = s.NameFromURL("/uploads/1-a.png")
			c.Assert(ok, qt.IsFalse)
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	c := qt.New(t)
	c.Assert(normalizePrefix(""), qt.Equals, "")
	c.Assert(normalizePrefix("/"), qt.Equals, "")
	c.Assert(normalizePrefix("uploads"), qt.Equals, "uploads/")
	c.Assert(normalizePrefix("/a/b/"), qt.Equals, "a/b/")
}

var (
	_ Backend = (*Disk)(nil)
	_ Backend = (*S3)(nil)
)
