package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/gymdesk/internal/calculator"
	"github.com/mmynk/gymdesk/internal/models"
)

// MergeResult describes one MergeRemote call.
type MergeResult struct {
	Entity   Entity
	Received int
	Added    int
	Updated  int
	// Skipped counts records without an id or that could not be decoded.
	Skipped int
}

// Alternate field names some backends send, mapped to the canonical name.
var (
	memberAliases   = map[string]string{"expiryDate": "endDate"}
	invoiceAliases  = map[string]string{"amount": "total"}
	followUpAliases = map[string]string{"type": "category"}
)

// MergeRemote folds a remote snapshot of entity into the local collection.
// Records are matched by id. Fields present in a remote record overwrite the
// local ones and fields it omits keep their local value; unknown ids are
// appended. Derived fields are recomputed afterwards. An empty snapshot
// leaves the collection untouched. The whole collection is rebuilt before
// being swapped in, so a failed record never leaves a partial merge.
func (s *Store) MergeRemote(entity Entity, records []json.RawMessage) (MergeResult, error) {
	res := MergeResult{Entity: entity, Received: len(records)}
	if len(records) == 0 {
		return res, nil
	}

	var err error
	s.mutate(entity, "merge", func(time.Time) bool {
		switch entity {
		case EntityMembers:
			s.members = mergeInto(s.members, records, memberAliases, &res, nil)
		case EntityInvoices:
			s.invoices = mergeInto(s.invoices, records, invoiceAliases, &res, func(inv *models.Invoice) {
				assignItemIDs(inv.Items)
				calculator.ApplyInvoice(inv)
				s.seq.Observe(inv.ID)
			})
		case EntityFollowUps:
			s.followUps = mergeInto(s.followUps, records, followUpAliases, &res, (*models.FollowUp).Normalize)
		case EntityCheckIns:
			s.checkIns = mergeInto(s.checkIns, records, nil, &res, func(c *models.CheckIn) {
				if c.Date == "" && !c.CheckInTime.IsZero() {
					c.Date = c.CheckInTime.Format(models.DayLayout)
				}
			})
		case EntityVisitors:
			s.visitors = mergeInto(s.visitors, records, nil, &res, nil)
		case EntityProteins:
			s.proteins = mergeInto(s.proteins, records, nil, &res, calculator.ApplyProtein)
		case EntityTrainers:
			s.trainers = mergeInto(s.trainers, records, nil, &res, nil)
		default:
			err = fmt.Errorf("failed to merge %s: %w", entity, ErrUnsyncedEntity)
			return false
		}
		return res.Added+res.Updated > 0
	})
	if err == nil && res.Skipped > 0 {
		s.logger.Warn("Skipped unreadable remote records", "entity", entity, "skipped", res.Skipped)
	}
	return res, err
}

// mergeInto returns a new collection holding local with records overlaid.
// local itself is not modified.
func mergeInto[T any](local *collection[T], records []json.RawMessage, aliases map[string]string, res *MergeResult, fix func(*T)) *collection[T] {
	merged := newCollection[T]()
	for _, id := range local.order {
		merged.set(id, local.items[id])
	}

	for _, raw := range records {
		var remote map[string]json.RawMessage
		if err := json.Unmarshal(raw, &remote); err != nil {
			res.Skipped++
			continue
		}
		normalizeAliases(remote, aliases)

		var id string
		if err := json.Unmarshal(remote["id"], &id); err != nil || id == "" {
			res.Skipped++
			continue
		}

		fields := map[string]json.RawMessage{}
		existing, found := merged.get(id)
		if found {
			data, err := json.Marshal(existing)
			if err != nil || json.Unmarshal(data, &fields) != nil {
				res.Skipped++
				continue
			}
			for alias := range aliases {
				delete(fields, alias)
			}
		}
		for k, v := range remote {
			fields[k] = v
		}

		data, err := json.Marshal(fields)
		if err != nil {
			res.Skipped++
			continue
		}
		var rec T
		if err := json.Unmarshal(data, &rec); err != nil {
			res.Skipped++
			continue
		}
		if fix != nil {
			fix(&rec)
		}
		merged.set(id, rec)
		if found {
			res.Updated++
		} else {
			res.Added++
		}
	}
	return merged
}

// normalizeAliases rewrites legacy keys to their canonical names. A canonical
// key that is already present wins over its alias.
func normalizeAliases(fields map[string]json.RawMessage, aliases map[string]string) {
	for alias, canonical := range aliases {
		v, ok := fields[alias]
		if !ok {
			continue
		}
		if _, has := fields[canonical]; !has {
			fields[canonical] = v
		}
		delete(fields, alias)
	}
}
