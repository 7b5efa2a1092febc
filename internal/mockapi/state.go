package mockapi

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"aisdk/internal/core"
)

// collection keeps objects by id in creation order.
type collection[T any] struct {
	order []string
	items map[string]*T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]*T)}
}

func (c *collection[T]) put(id string, v *T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *collection[T]) get(id string) (*T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
	return true
}

// values returns copies in creation order.
func (c *collection[T]) values() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.items[id])
	}
	return out
}

// childrenOf returns the collection stored under key, creating it.
func childrenOf[T any](m map[string]*collection[T], key string) *collection[T] {
	c, ok := m[key]
	if !ok {
		c = newCollection[T]()
		m[key] = c
	}
	return c
}

type state struct {
	mu sync.Mutex

	assistants *collection[core.Assistant]
	threads    *collection[core.Thread]
	messages   map[string]*collection[core.Message] // by thread
	runs       map[string]*collection[core.Run]     // by thread
	steps      map[string]*collection[core.RunStep] // by run

	vectorStores *collection[core.VectorStore]
	storeFiles   map[string]*collection[core.VectorStoreFileAssociation] // by store
	batches      map[string]*collection[core.VectorStoreBatchFileJob]    // by store
	batchFiles   map[string][]string                                     // file ids by batch

	files    *collection[core.FileInfo]
	fileData map[string][]byte

	jobs      *collection[core.FineTuningJob]
	jobEvents map[string]*collection[core.FineTuningJobEvent] // by job

	now func() int64
}

func newState() *state {
	return &state{
		assistants:   newCollection[core.Assistant](),
		threads:      newCollection[core.Thread](),
		messages:     make(map[string]*collection[core.Message]),
		runs:         make(map[string]*collection[core.Run]),
		steps:        make(map[string]*collection[core.RunStep]),
		vectorStores: newCollection[core.VectorStore](),
		storeFiles:   make(map[string]*collection[core.VectorStoreFileAssociation]),
		batches:      make(map[string]*collection[core.VectorStoreBatchFileJob]),
		batchFiles:   make(map[string][]string),
		files:        newCollection[core.FileInfo](),
		fileData:     make(map[string][]byte),
		jobs:         newCollection[core.FineTuningJob](),
		jobEvents:    make(map[string]*collection[core.FineTuningJobEvent]),
		now:          func() int64 { return time.Now().Unix() },
	}
}

// newID returns prefix followed by 24 random hex characters.
func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// readJSON decodes the request body into every target. An empty body leaves
// the targets untouched.
func readJSON(c echo.Context, targets ...any) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	for _, t := range targets {
		if err := json.Unmarshal(raw, t); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "We could not parse the JSON body of your request.")
		}
	}
	return nil
}

// paginate applies the limit, order and after query parameters to items,
// which are in creation order. The default order is newest first.
func paginate[T any](c echo.Context, items []T, id func(T) string) (core.ListPage[T], error) {
	page := core.ListPage[T]{Object: "list", Data: []T{}}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return page, invalidRequest(c, "limit", "Invalid 'limit': expected an integer between 1 and 100.")
		}
		limit = n
	}

	switch c.QueryParam("order") {
	case "", "desc":
		items = slices.Clone(items)
		slices.Reverse(items)
	case "asc":
	default:
		return page, invalidRequest(c, "order", "Invalid 'order': expected 'asc' or 'desc'.")
	}

	start := 0
	if after := c.QueryParam("after"); after != "" {
		idx := slices.IndexFunc(items, func(v T) bool { return id(v) == after })
		if idx == -1 {
			return page, invalidRequest(c, "after", "Invalid 'after': no object with id '%s'.", after)
		}
		start = idx + 1
	}

	end := min(start+limit, len(items))
	if start < end {
		page.Data = items[start:end]
		page.FirstID = id(page.Data[0])
		page.LastID = id(page.Data[len(page.Data)-1])
	}
	page.HasMore = end < len(items)
	return page, nil
}

// listJSON writes one page of items, or the error already sent by paginate.
func listJSON[T any](c echo.Context, items []T, id func(T) string) error {
	page, err := paginate(c, items, id)
	if err != nil || c.Response().Committed {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// listJSONNoCursor is listJSON without first_id and last_id, the shape the
// fine-tuning list endpoints answer with.
func listJSONNoCursor[T any](c echo.Context, items []T, id func(T) string) error {
	page, err := paginate(c, items, id)
	if err != nil || c.Response().Committed {
		return err
	}
	page.FirstID, page.LastID = "", ""
	return c.JSON(http.StatusOK, page)
}

func deleted(c echo.Context, id, object string) error {
	return c.JSON(http.StatusOK, core.DeletionStatus{ID: id, Object: object, Deleted: true})
}
