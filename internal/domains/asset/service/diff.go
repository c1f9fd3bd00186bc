package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/domains/asset/repository"
)

// UserDirectory resolve owner ID → display name
type UserDirectory interface {
	DisplayName(ctx context.Context, id int64) (name string, found bool, err error)
}

// TermNamer resolve category ID → tên
type TermNamer interface {
	TermName(ctx context.Context, id int64) (string, error)
}

// FieldWrite - một field cần ghi lại vào store
type FieldWrite struct {
	Key   model.FieldKey
	Value string
}

// Changeset - kết quả so sánh previous vs next của một lần save
type Changeset struct {
	Writes          []FieldWrite
	CategoryChanged bool
	Category        *int64
	Lines           []string
}

// Empty - không có gì để ghi
func (c Changeset) Empty() bool {
	return len(c.Writes) == 0 && !c.CategoryChanged
}

func (c Changeset) Note() string {
	return strings.Join(c.Lines, "; ")
}

// HistoryEngine so sánh canonical value theo từng field và ghi history.
// Tên owner/category luôn đọc qua store của transaction đang chạy.
type HistoryEngine struct{}

func NewHistoryEngine() *HistoryEngine {
	return &HistoryEngine{}
}

// Diff không ghi gì vào store
func (e *HistoryEngine) Diff(
	ctx context.Context,
	terms TermNamer,
	users UserDirectory,
	previous, next model.Attributes,
	previousCategory, nextCategory *int64,
) (Changeset, error) {
	var cs Changeset

	for _, f := range model.Fields {
		oldValue, newValue := previous.Get(f.Key), next.Get(f.Key)

		if f.Kind == model.KindUserRef {
			oldRef, newRef := model.ComparableUserRef(oldValue), model.ComparableUserRef(newValue)
			if oldRef == newRef {
				continue
			}
			cs.Writes = append(cs.Writes, FieldWrite{f.Key, newValue})

			oldName, err := ownerLabel(ctx, users, oldRef)
			if err != nil {
				return Changeset{}, err
			}
			newName, err := ownerLabel(ctx, users, newRef)
			if err != nil {
				return Changeset{}, err
			}
			if oldName != newName {
				cs.Lines = append(cs.Lines, changedLine(f.Label, oldName, newName))
			}
			continue
		}

		if strings.TrimSpace(oldValue) == strings.TrimSpace(newValue) {
			continue
		}
		cs.Writes = append(cs.Writes, FieldWrite{f.Key, newValue})

		if f.Kind == model.KindLongText {
			cs.Lines = append(cs.Lines, f.Label+" changed.")
		} else {
			cs.Lines = append(cs.Lines, changedLine(f.Label, orEmpty(oldValue), orEmpty(newValue)))
		}
	}

	if !sameID(previousCategory, nextCategory) {
		cs.CategoryChanged = true
		cs.Category = nextCategory

		oldName, err := termLabel(ctx, terms, previousCategory)
		if err != nil {
			return Changeset{}, err
		}
		newName, err := termLabel(ctx, terms, nextCategory)
		if err != nil {
			return Changeset{}, err
		}
		if oldName != newName {
			cs.Lines = append(cs.Lines, changedLine(model.CategoryLabel, oldName, newName))
		}
	}

	return cs, nil
}

// Apply diff rồi ghi các field khác biệt, category và một history entry (nếu có line)
func (e *HistoryEngine) Apply(
	ctx context.Context,
	stores repository.Stores,
	recordID int64,
	previous, next model.Attributes,
	previousCategory, nextCategory *int64,
	actorID int64,
) (Changeset, error) {
	cs, err := e.Diff(ctx, stores.Taxonomy, stores.Users, previous, next, previousCategory, nextCategory)
	if err != nil {
		return Changeset{}, fmt.Errorf("diff asset %d: %w", recordID, err)
	}

	for _, w := range cs.Writes {
		if err := stores.Records.Set(ctx, recordID, w.Key, w.Value); err != nil {
			return Changeset{}, err
		}
	}
	if cs.CategoryChanged {
		if err := stores.Taxonomy.SetRecordTerm(ctx, recordID, cs.Category); err != nil {
			return Changeset{}, err
		}
	}

	if len(cs.Lines) == 0 {
		return cs, nil
	}

	now, err := stores.Clock.Now(ctx)
	if err != nil {
		return Changeset{}, err
	}
	entry := model.HistoryEntry{Timestamp: now, ActorID: actorRef(actorID), Note: cs.Note()}
	if err := stores.Records.AppendHistory(ctx, recordID, entry); err != nil {
		return Changeset{}, err
	}
	return cs, nil
}

// ownerLabel: "" → Unassigned, không tìm thấy → Unknown User (ID: n)
func ownerLabel(ctx context.Context, users UserDirectory, ref string) (string, error) {
	if ref == "" {
		return model.DisplayUnassigned, nil
	}
	id, _ := strconv.ParseInt(ref, 10, 64)

	name, found, err := users.DisplayName(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve user %d: %w", id, err)
	}
	if !found {
		return model.UnknownUserLabel(id), nil
	}
	return name, nil
}

func termLabel(ctx context.Context, terms TermNamer, id *int64) (string, error) {
	if id == nil {
		return model.DisplayNoCategory, nil
	}
	name, err := terms.TermName(ctx, *id)
	if err != nil {
		if errors.Is(err, model.ErrCategoryNotFound) {
			return model.DisplayNoCategory, nil
		}
		return "", fmt.Errorf("resolve category %d: %w", *id, err)
	}
	if name == "" {
		return model.DisplayNoCategory, nil
	}
	return name, nil
}

func changedLine(label, from, to string) string {
	return fmt.Sprintf(`%s changed from "%s" to "%s"`, label, from, to)
}

func orEmpty(v string) string {
	if strings.TrimSpace(v) == "" {
		return model.DisplayEmpty
	}
	return v
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func actorRef(actorID int64) *int64 {
	if actorID <= 0 {
		return nil
	}
	return &actorID
}
