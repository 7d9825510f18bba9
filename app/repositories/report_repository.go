package repositories

import (
	"context"
	"fmt"

	"contenthub/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerReportRepository implements ReportRepository using BadgerDB
type BadgerReportRepository struct {
	db *badger.DB
}

// NewBadgerReportRepository creates a new BadgerReportRepository
func NewBadgerReportRepository(db *badger.DB) *BadgerReportRepository {
	return &BadgerReportRepository{db: db}
}

// Create stores a new report
func (r *BadgerReportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		report.ID = newID()
		report.CreatedAt = Now()
		report.BeforeCreate()
		return setEntity(txn, reportKey(report.PostID, report.ID), report)
	})
}

// ListByPost returns every report filed against a post
func (r *BadgerReportRepository) ListByPost(ctx context.Context, postID string) ([]*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reports := []*models.Report{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("%s%s:", ReportKeyPrefix, postID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var report models.Report
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &report)
			})
			if err != nil {
				return err
			}
			reports = append(reports, &report)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}
