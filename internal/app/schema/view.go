package schema

import "github.com/ikkim/stores-rest-api/internal/app/model"

type PlainStore struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type PlainItem struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type PlainTag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type StoreView struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Items []PlainItem `json:"items"`
}

type ItemView struct {
	ID      uint       `json:"id"`
	Name    string     `json:"name"`
	Price   float64    `json:"price"`
	StoreID uint       `json:"store_id"`
	Store   PlainStore `json:"store"`
	Tags    []PlainTag `json:"tags"`
}

type TagView struct {
	ID      uint        `json:"id"`
	Name    string      `json:"name"`
	StoreID uint        `json:"store_id"`
	Store   PlainStore  `json:"store"`
	Items   []PlainItem `json:"items"`
}

type UserView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type TokenView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type MessageView struct {
	Message string `json:"message"`
}

// ItemTagView is returned when a tag is unlinked from an item.
type ItemTagView struct {
	Message string   `json:"message"`
	Item    ItemView `json:"item"`
	Tag     TagView  `json:"tag"`
}

// Collections are always rendered as arrays, never null.

func plainItems(items []model.Item) []PlainItem {
	out := make([]PlainItem, 0, len(items))
	for _, item := range items {
		out = append(out, PlainItem{ID: item.ID, Name: item.Name, Price: item.Price})
	}
	return out
}

func plainTags(tags []model.Tag) []PlainTag {
	out := make([]PlainTag, 0, len(tags))
	for _, tag := range tags {
		out = append(out, PlainTag{ID: tag.ID, Name: tag.Name})
	}
	return out
}

func plainStore(store *model.Store, id uint) PlainStore {
	if store == nil {
		return PlainStore{ID: id}
	}
	return PlainStore{ID: store.ID, Name: store.Name}
}

func NewStoreView(store *model.Store) StoreView {
	return StoreView{
		ID:    store.ID,
		Name:  store.Name,
		Items: plainItems(store.Items),
	}
}

func NewStoreViews(stores []model.Store) []StoreView {
	out := make([]StoreView, 0, len(stores))
	for i := range stores {
		out = append(out, NewStoreView(&stores[i]))
	}
	return out
}

func NewItemView(item *model.Item) ItemView {
	return ItemView{
		ID:      item.ID,
		Name:    item.Name,
		Price:   item.Price,
		StoreID: item.StoreID,
		Store:   plainStore(item.Store, item.StoreID),
		Tags:    plainTags(item.Tags),
	}
}

func NewItemViews(items []model.Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for i := range items {
		out = append(out, NewItemView(&items[i]))
	}
	return out
}

func NewTagView(tag *model.Tag) TagView {
	return TagView{
		ID:      tag.ID,
		Name:    tag.Name,
		StoreID: tag.StoreID,
		Store:   plainStore(tag.Store, tag.StoreID),
		Items:   plainItems(tag.Items),
	}
}

func NewTagViews(tags []model.Tag) []TagView {
	out := make([]TagView, 0, len(tags))
	for i := range tags {
		out = append(out, NewTagView(&tags[i]))
	}
	return out
}

func NewUserView(user *model.User) UserView {
	return UserView{ID: user.ID, Username: user.Username}
}
