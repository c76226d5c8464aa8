// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// NewsArticle is a news entry shown on the news page.
type NewsArticle struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewsArticleInput is the validated payload for creating an article.
// An empty Image is stored as NULL.
type NewsArticleInput struct {
	Title   string `json:"title" validate:"required,max=300"`
	Content string `json:"content" validate:"required,max=100000"`
	Excerpt string `json:"excerpt" validate:"required,max=1000"`
	Image   string `json:"-"`
}

// Validate reports whether the input satisfies the insert rules.
func (in *NewsArticleInput) Validate() error {
	return Validate(in)
}

// NewsArticlePatch carries a partial article update. Nil fields are left
// unchanged; a non-nil Image replaces the stored one.
type NewsArticlePatch struct {
	Title   *string `json:"title" validate:"omitnil,min=1,max=300"`
	Content *string `json:"content" validate:"omitnil,min=1,max=100000"`
	Excerpt *string `json:"excerpt" validate:"omitnil,min=1,max=1000"`
	Image   *string `json:"-"`
}

// Validate reports whether every present field satisfies the insert rules.
func (p *NewsArticlePatch) Validate() error {
	return Validate(p)
}
