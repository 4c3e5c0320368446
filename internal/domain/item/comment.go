package item

import (
	"context"
	"errors"
	"strconv"
	"time"
)

var (
	ErrIllegalComment   = errors.New("comment: user has no completed booking of this item")
	ErrCommentTextEmpty = errors.New("comment: text is required")
)

// Comment is feedback left on an item by a user who completed a booking of
// it. AuthorName is snapshotted at creation so responses do not need a user
// lookup.
type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Created    time.Time
}

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) (*Comment, error)
	// ByItemID lists comments for an item, insertion order.
	ByItemID(ctx context.Context, itemID int64) ([]*Comment, error)
}

// CommentAdded is recorded when a comment passes admission.
type CommentAdded struct {
	CommentID int64     `json:"comment_id"`
	ItemID    int64     `json:"item_id"`
	AuthorID  int64     `json:"author_id"`
	At        time.Time `json:"at"`
}

func (e CommentAdded) EventName() string     { return "item.comment_added" }
func (e CommentAdded) OccurredAt() time.Time { return e.At }
func (e CommentAdded) AggregateID() string   { return strconv.FormatInt(e.ItemID, 10) }
