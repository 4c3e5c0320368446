package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainitem "lendme/internal/domain/item"
	"lendme/internal/domain/shared/page"
)

// ItemRepository stores items in memory.
type ItemRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*domainitem.Item
	// order preserves insertion order for request fan-out.
	order []int64
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[int64]*domainitem.Item)}
}

func (r *ItemRepository) ByID(ctx context.Context, id int64) (*domainitem.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	itm, ok := r.items[id]
	if !ok {
		return nil, domainitem.ErrNotFound
	}
	return cloneItem(itm), nil
}

func (r *ItemRepository) Create(ctx context.Context, i *domainitem.Item) (*domainitem.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := cloneItem(i)
	stored.ID = r.nextID
	r.items[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return cloneItem(stored), nil
}

func (r *ItemRepository) Update(ctx context.Context, i *domainitem.Item) (*domainitem.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[i.ID]; !ok {
		return nil, domainitem.ErrNotFound
	}
	stored := cloneItem(i)
	r.items[stored.ID] = stored
	return cloneItem(stored), nil
}

func (r *ItemRepository) ByOwnerID(ctx context.Context, ownerID int64, p page.Page) ([]*domainitem.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := r.collect(func(i *domainitem.Item) bool { return i.OwnerID == ownerID })
	sort.Slice(matches, func(a, b int) bool { return matches[a].ID < matches[b].ID })
	return pageItems(matches, p), nil
}

func (r *ItemRepository) Search(ctx context.Context, text string, p page.Page) ([]*domainitem.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(text)
	matches := r.collect(func(i *domainitem.Item) bool {
		if !i.Available {
			return false
		}
		return strings.Contains(strings.ToLower(i.Name), needle) ||
			strings.Contains(strings.ToLower(i.Description), needle)
	})
	return pageItems(matches, p), nil
}

func (r *ItemRepository) ByRequestID(ctx context.Context, requestID int64) ([]*domainitem.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(i *domainitem.Item) bool { return i.RequestID == requestID && requestID != 0 }), nil
}

// collect walks items in insertion order.
func (r *ItemRepository) collect(match func(*domainitem.Item) bool) []*domainitem.Item {
	result := make([]*domainitem.Item, 0)
	for _, id := range r.order {
		itm, ok := r.items[id]
		if !ok {
			continue
		}
		if match(itm) {
			result = append(result, cloneItem(itm))
		}
	}
	return result
}

func pageItems(items []*domainitem.Item, p page.Page) []*domainitem.Item {
	start, end := p.Bounds(len(items))
	return items[start:end]
}

func cloneItem(i *domainitem.Item) *domainitem.Item {
	if i == nil {
		return nil
	}
	copied := *i
	return &copied
}
