package memory

import (
	"context"
	"sync"

	domainitem "lendme/internal/domain/item"
)

// CommentRepository stores comments in memory, insertion order per item.
type CommentRepository struct {
	mu       sync.RWMutex
	nextID   int64
	comments []*domainitem.Comment
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{}
}

func (r *CommentRepository) Create(ctx context.Context, c *domainitem.Comment) (*domainitem.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := cloneComment(c)
	stored.ID = r.nextID
	r.comments = append(r.comments, stored)
	return cloneComment(stored), nil
}

func (r *CommentRepository) ByItemID(ctx context.Context, itemID int64) ([]*domainitem.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domainitem.Comment, 0)
	for _, c := range r.comments {
		if c.ItemID == itemID {
			result = append(result, cloneComment(c))
		}
	}
	return result, nil
}

func cloneComment(c *domainitem.Comment) *domainitem.Comment {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}
