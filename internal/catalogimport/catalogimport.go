// Package catalogimport loads stores, items and tags from a spreadsheet.
//
// The first sheet is read. Its first row is a header; every following row is
//
//	store | item | price | tags
//
// where tags is a comma separated list. A row with only a store creates the
// store. Rows with a blank store or an unparsable price are skipped.
package catalogimport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/ikkim/stores-rest-api/internal/app/repository"
	"github.com/ikkim/stores-rest-api/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	colStore = iota
	colItem
	colPrice
	colTags
)

// Row is one parsed catalog line. Item is empty for store-only rows.
type Row struct {
	Line  int
	Store string
	Item  string
	Price float64
	Tags  []string
}

// Summary counts what an import created. Links counts every item-tag pair
// the import ensured, including pairs that already existed.
type Summary struct {
	Rows   int
	Stores int
	Items  int
	Tags   int
	Links  int
}

// ReadFile parses the first sheet of an XLSX workbook.
func ReadFile(path string) ([]Row, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, errors.New("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, errors.New("no data found in XLSX file")
	}

	parsed, skipped := ParseRows(rows[1:], 2)
	return parsed, skipped, nil
}

// ParseRows converts raw cells into rows. firstLine is the spreadsheet line
// number of rows[0], used in log output.
func ParseRows(rows [][]string, firstLine int) ([]Row, int) {
	var parsed []Row
	skipped := 0

	for i, cells := range rows {
		line := firstLine + i
		row := Row{
			Line:  line,
			Store: cell(cells, colStore),
			Item:  cell(cells, colItem),
		}

		if row.Store == "" {
			if len(strings.Join(cells, "")) > 0 {
				logger.Warn("Skipping catalog row without store", map[string]interface{}{"line": line})
				skipped++
			}
			continue
		}

		if row.Item != "" {
			price, err := strconv.ParseFloat(cell(cells, colPrice), 64)
			if err != nil {
				logger.Warn("Skipping catalog row with invalid price", map[string]interface{}{
					"line":  line,
					"price": cell(cells, colPrice),
				})
				skipped++
				continue
			}
			row.Price = price
			row.Tags = splitTags(cell(cells, colTags))
		}

		parsed = append(parsed, row)
	}

	return parsed, skipped
}

func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func splitTags(s string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// Import writes rows in a single transaction, creating whatever is missing.
// An existing item (same store and name) gets the row's price.
func Import(db *gorm.DB, rows []Row) (Summary, error) {
	summary := Summary{Rows: len(rows)}

	err := db.Transaction(func(tx *gorm.DB) error {
		tagRepo := repository.NewTagRepository(tx)
		stores := make(map[string]*model.Store)

		for _, row := range rows {
			store, ok := stores[row.Store]
			if !ok {
				store = &model.Store{Name: row.Store}
				created, err := firstOrCreate(tx, store, "name = ?", row.Store)
				if err != nil {
					return fmt.Errorf("line %d: store %q: %w", row.Line, row.Store, err)
				}
				if created {
					summary.Stores++
				}
				stores[row.Store] = store
			}

			if row.Item == "" {
				continue
			}

			item := &model.Item{Name: row.Item, Price: row.Price, StoreID: store.ID}
			created, err := firstOrCreate(tx, item, "store_id = ? AND name = ?", store.ID, row.Item)
			if err != nil {
				return fmt.Errorf("line %d: item %q: %w", row.Line, row.Item, err)
			}
			if created {
				summary.Items++
			} else if item.Price != row.Price {
				if err := tx.Model(item).Update("price", row.Price).Error; err != nil {
					return fmt.Errorf("line %d: item %q: %w", row.Line, row.Item, err)
				}
			}

			for _, name := range row.Tags {
				tag := &model.Tag{Name: name, StoreID: store.ID}
				created, err := firstOrCreate(tx, tag, "store_id = ? AND name = ?", store.ID, name)
				if err != nil {
					return fmt.Errorf("line %d: tag %q: %w", row.Line, name, err)
				}
				if created {
					summary.Tags++
				}

				if err := tagRepo.LinkItem(item.ID, tag.ID); err != nil {
					return fmt.Errorf("line %d: link %q: %w", row.Line, name, err)
				}
				summary.Links++
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	logger.Info("Catalog import completed", map[string]interface{}{
		"rows":   summary.Rows,
		"stores": summary.Stores,
		"items":  summary.Items,
		"tags":   summary.Tags,
		"links":  summary.Links,
	})
	return summary, nil
}

// firstOrCreate loads the row matching query into dest, or inserts dest as
// given when there is none.
func firstOrCreate(tx *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := tx.Where(query, args...).First(dest).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, tx.Omit(clause.Associations).Create(dest).Error
}
