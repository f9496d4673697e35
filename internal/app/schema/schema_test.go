package schema

import (
	"encoding/json"
	"testing"

	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/ikkim/stores-rest-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreView_EmptyItemsIsArray(t *testing.T) {
	body, err := json.Marshal(NewStoreView(&model.Store{ID: 1, Name: "S"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"S","items":[]}`, string(body))
}

func TestNewItemView(t *testing.T) {
	item := &model.Item{
		ID:      3,
		Name:    "Chair",
		Price:   9.5,
		StoreID: 1,
		Store:   &model.Store{ID: 1, Name: "S"},
		Tags:    []model.Tag{{ID: 2, Name: "wood", StoreID: 1}},
	}

	body, err := json.Marshal(NewItemView(item))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 3, "name": "Chair", "price": 9.5, "store_id": 1,
		"store": {"id": 1, "name": "S"},
		"tags": [{"id": 2, "name": "wood"}]
	}`, string(body))
}

func TestNewTagViews_Empty(t *testing.T) {
	body, err := json.Marshal(NewTagViews(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}

func TestNewUserView_OmitsPassword(t *testing.T) {
	body, err := json.Marshal(NewUserView(&model.User{ID: 1, Username: "a", PasswordHash: "secret"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"username":"a"}`, string(body))
}

func TestItemRequest_Validation(t *testing.T) {
	name := "Chair"
	price := 0.0

	err := validation.Validate(ItemRequest{Name: &name, Price: &price})
	var fields validation.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, map[string]string{"store_id": "is required"}, map[string]string(fields))

	var storeID uint = 1
	assert.NoError(t, validation.Validate(ItemRequest{Name: &name, Price: &price, StoreID: &storeID}))
}

func TestItemUpdateRequest_Validation(t *testing.T) {
	assert.NoError(t, validation.Validate(ItemUpdateRequest{}))

	empty := ""
	err := validation.Validate(ItemUpdateRequest{Name: &empty})
	var fields validation.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "name")
}
