package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/useradmin/user-admin/backend/internal/model/user"
	"github.com/useradmin/user-admin/backend/internal/service/events"
)

var ErrUnknownField = errors.New("unknown search field")

// Field names a user attribute that Search can match against.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
)

// AllFields is the field set used by the grid's search box.
func AllFields() []Field {
	return []Field{FieldName, FieldEmail, FieldPhone, FieldAddress}
}

// ParseFields reads a comma separated field list such as "name,email".
func ParseFields(raw string) ([]Field, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var fields []Field
	for _, part := range strings.Split(raw, ",") {
		f := Field(strings.ToLower(strings.TrimSpace(part)))
		switch f {
		case FieldName, FieldEmail, FieldPhone, FieldAddress:
			fields = append(fields, f)
		case "":
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, part)
		}
	}
	return fields, nil
}

// Publisher receives a notification after every successful mutation.
type Publisher interface {
	Publish(evt events.ChangeEvent)
}

// Service implements the user record operations on top of a MemoryStore.
// Not found is reported through the boolean results, never as an error.
type Service struct {
	store     *user.MemoryStore
	publisher Publisher
	logger    *zap.Logger
}

// NewService wires the service to its store. publisher and logger may be nil.
func NewService(store *user.MemoryStore, publisher Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns every user in insertion order.
func (s *Service) List(_ context.Context) []user.User {
	var out []user.User
	s.store.View(func(items []user.User) {
		out = append(make([]user.User, 0, len(items)), items...)
	})
	return out
}

// Get looks up a user by id.
func (s *Service) Get(_ context.Context, id int) (user.User, bool) {
	var (
		found user.User
		ok    bool
	)
	s.store.View(func(items []user.User) {
		for _, item := range items {
			if item.ID == id {
				found, ok = item, true
				return
			}
		}
	})
	return found, ok
}

// Create appends a new user built from fields. No validation is applied.
func (s *Service) Create(_ context.Context, fields user.Fields) user.User {
	var created user.User
	s.store.Mutate(func(items []user.User) []user.User {
		created = user.User{
			ID:      s.store.NextID(items),
			Name:    fields.Name,
			Email:   fields.Email,
			Phone:   fields.Phone,
			Address: fields.Address,
		}
		return append(items, created)
	})

	s.logger.Debug("user created", zap.Int("id", created.ID))
	s.publish(events.Created, created.ID)
	return created
}

// Update merges patch over the user with the given id, keeping its position.
func (s *Service) Update(_ context.Context, id int, patch user.Patch) (user.User, bool) {
	var (
		updated user.User
		ok      bool
	)
	s.store.Mutate(func(items []user.User) []user.User {
		for i := range items {
			if items[i].ID == id {
				items[i] = patch.Apply(items[i])
				updated, ok = items[i], true
				break
			}
		}
		return items
	})
	if !ok {
		return user.User{}, false
	}

	s.logger.Debug("user updated", zap.Int("id", id))
	s.publish(events.Updated, id)
	return updated, true
}

// Delete removes every user with the given id and reports whether anything was removed.
func (s *Service) Delete(_ context.Context, id int) bool {
	var removed bool
	s.store.Mutate(func(items []user.User) []user.User {
		kept := make([]user.User, 0, len(items))
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		removed = len(kept) != len(items)
		return kept
	})
	if !removed {
		return false
	}

	s.logger.Debug("user deleted", zap.Int("id", id))
	s.publish(events.Deleted, id)
	return true
}

// Search returns users whose fields contain query, ignoring case.
// With no fields only the name is matched. An empty query matches everyone.
func (s *Service) Search(_ context.Context, query string, fields ...Field) []user.User {
	if len(fields) == 0 {
		fields = []Field{FieldName}
	}
	folder := cases.Fold()
	needle := folder.String(query)

	var out []user.User
	s.store.View(func(items []user.User) {
		out = make([]user.User, 0, len(items))
		for _, item := range items {
			for _, f := range fields {
				if strings.Contains(folder.String(fieldValue(item, f)), needle) {
					out = append(out, item)
					break
				}
			}
		}
	})
	return out
}

func fieldValue(u user.User, f Field) string {
	switch f {
	case FieldEmail:
		return u.Email
	case FieldPhone:
		return u.Phone
	case FieldAddress:
		return u.Address
	default:
		return u.Name
	}
}

func (s *Service) publish(kind events.Type, id int) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.NewChangeEvent(kind, id))
}
