// Package schema holds request bodies and the JSON views returned by the API.
package schema

type UserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=80"`
	Password string `json:"password" validate:"required,min=1,maxbytes=72"`
}

type StoreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=80"`
}

type TagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=80"`
}

// ItemRequest is the POST /item body. Pointers distinguish a missing field
// from a zero value.
type ItemRequest struct {
	Name    *string  `json:"name" validate:"required,min=1,max=80"`
	Price   *float64 `json:"price" validate:"required"`
	StoreID *uint    `json:"store_id" validate:"required"`
}

// ItemUpdateRequest is the PUT /item/{id} body; every field is optional.
type ItemUpdateRequest struct {
	Name    *string  `json:"name" validate:"omitempty,min=1,max=80"`
	Price   *float64 `json:"price"`
	StoreID *uint    `json:"store_id"`
}
