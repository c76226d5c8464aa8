// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultPrice is stored when a post is created without a price.
const DefaultPrice = "0"

// DownloadFile describes one downloadable attachment of a post.
type DownloadFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// Post is a downloadable asset listed in a category.
type Post struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	CategoryID    string        `json:"categoryId"`
	Price         string        `json:"price"`
	IsFree        bool          `json:"isFree"`
	Images        StringList    `json:"images"`
	DownloadFiles DownloadFiles `json:"downloadFiles"`
	DownloadCount int64         `json:"downloadCount,string"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// PostInput is the validated payload for creating a post. Images and
// DownloadFiles are filled from the uploaded files, not from the form.
type PostInput struct {
	Title         string         `json:"title" validate:"required,max=300"`
	Description   string         `json:"description" validate:"required,max=100000"`
	CategoryID    string         `json:"categoryId" validate:"required,max=200"`
	Price         string         `json:"price" validate:"price"`
	Images        []string       `json:"-" validate:"max=10"`
	DownloadFiles []DownloadFile `json:"-" validate:"max=5"`
}

// Validate reports whether the input satisfies the insert rules.
func (in *PostInput) Validate() error {
	return Validate(in)
}

// NormalizedPrice returns the price to store, defaulting blank to "0".
func (in *PostInput) NormalizedPrice() string {
	p := strings.TrimSpace(in.Price)
	if p == "" {
		return DefaultPrice
	}
	return p
}

// PostPatch carries a partial post update. Nil fields are left unchanged.
// AddImages and AddDownloadFiles are appended to the stored lists.
type PostPatch struct {
	Title            *string        `json:"title" validate:"omitnil,min=1,max=300"`
	Description      *string        `json:"description" validate:"omitnil,min=1,max=100000"`
	CategoryID       *string        `json:"categoryId" validate:"omitnil,min=1,max=200"`
	Price            *string        `json:"price" validate:"omitnil,price"`
	AddImages        []string       `json:"-"`
	AddDownloadFiles []DownloadFile `json:"-"`
}

// Validate reports whether every present field satisfies the insert rules.
func (p *PostPatch) Validate() error {
	return Validate(p)
}

// IsFreePrice derives the isFree flag from a price: blank or numerically
// zero means free. Unparseable prices are treated as paid.
func IsFreePrice(price string) bool {
	s := strings.TrimSpace(price)
	if s == "" {
		return true
	}
	r, ok := parsePrice(s)
	if !ok {
		return false
	}
	return r.Sign() == 0
}

// StringList is an ordered list of strings stored as a JSONB array.
type StringList []string

// Value implements driver.Valuer. A nil list is stored as [].
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

// MarshalJSON always renders an array, never null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// DownloadFiles is a list of attachments stored as a JSONB array.
type DownloadFiles []DownloadFile

// Value implements driver.Valuer. A nil list is stored as [].
func (f DownloadFiles) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]DownloadFile(f))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (f *DownloadFiles) Scan(src any) error {
	return scanJSON(src, f)
}

// MarshalJSON always renders an array, never null.
func (f DownloadFiles) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]DownloadFile(f))
}

func scanJSON(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scan json: unsupported type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
