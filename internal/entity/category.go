package entity

import "encoding/json"

// Category is a book category. Names are unique among categories; the
// client pre-checks before a write but the server is authoritative.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON normalizes the two wire shapes the backend has shipped
// over time: a bare string ("Fiction") and an object ({"id","name"}).
// Legacy strings become {ID: s, Name: s} once, at the boundary, so no
// other code has to duck-type categories.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.ID = s
		c.Name = s
		return nil
	}

	type alias Category
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*c = Category(obj)
	if c.ID == "" {
		// some responses use _id
		var m struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(data, &m); err == nil {
			c.ID = m.ID
		}
	}
	return nil
}

// CategoryInput is the payload for creating or renaming a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,min=1"`
}
