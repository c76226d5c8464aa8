// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category groups posts. Name and slug are unique; posts reference a
// category by ID without a foreign key, so deleting one leaves its posts
// pointing at a missing category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryInput is the validated payload for creating a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=200"`
	Slug string `json:"slug" validate:"required,max=200"`
}

// Validate reports whether the input satisfies the insert rules.
func (in *CategoryInput) Validate() error {
	return Validate(in)
}

// CategoryPatch carries a partial category update. Nil fields are left
// unchanged.
type CategoryPatch struct {
	Name *string `json:"name" validate:"omitnil,min=1,max=200"`
	Slug *string `json:"slug" validate:"omitnil,min=1,max=200"`
}

// Validate reports whether every present field satisfies the insert rules.
func (p *CategoryPatch) Validate() error {
	return Validate(p)
}

// IsEmpty returns true if the patch changes nothing.
func (p *CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Slug == nil
}
