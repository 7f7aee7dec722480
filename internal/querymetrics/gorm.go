package querymetrics

import (
	"time"

	"gorm.io/gorm"
)

const startTimeKey = "querymetrics:start"

// Plugin hooks the recorder into GORM so every create, query, update,
// delete, row, and raw statement is observed.
type Plugin struct {
	rec *Recorder
}

// NewPlugin wraps a recorder as a GORM plugin.
func NewPlugin(rec *Recorder) *Plugin {
	return &Plugin{rec: rec}
}

func (p *Plugin) Name() string {
	return "querymetrics"
}

func (p *Plugin) Initialize(db *gorm.DB) error {
	type hook struct {
		action   string
		register func(before, after func(*gorm.DB)) error
	}
	hooks := []hook{
		{"create", func(before, after func(*gorm.DB)) error {
			if err := db.Callback().Create().Before("gorm:create").Register("querymetrics:before_create", before); err != nil {
				return err
			}
			return db.Callback().Create().After("gorm:create").Register("querymetrics:after_create", after)
		}},
		{"query", func(before, after func(*gorm.DB)) error {
			if err := db.Callback().Query().Before("gorm:query").Register("querymetrics:before_query", before); err != nil {
				return err
			}
			return db.Callback().Query().After("gorm:query").Register("querymetrics:after_query", after)
		}},
		{"update", func(before, after func(*gorm.DB)) error {
			if err := db.Callback().Update().Before("gorm:update").Register("querymetrics:before_update", before); err != nil {
				return err
			}
			return db.Callback().Update().After("gorm:update").Register("querymetrics:after_update", after)
		}},
		{"delete", func(before, after func(*gorm.DB)) error {
			if err := db.Callback().Delete().Before("gorm:delete").Register("querymetrics:before_delete", before); err != nil {
				return err
			}
			return db.Callback().Delete().After("gorm:delete").Register("querymetrics:after_delete", after)
		}},
		{"row", func(before, after func(*gorm.DB)) error {
			if err := db.Callback().Row().Before("gorm:row").Register("querymetrics:before_row", before); err != nil {
				return err
			}
			return db.Callback().Row().After("gorm:row").Register("querymetrics:after_row", after)
		}},
		{"raw", func(before, after func(*gorm.DB)) error {
			if err := db.Callback().Raw().Before("gorm:raw").Register("querymetrics:before_raw", before); err != nil {
				return err
			}
			return db.Callback().Raw().After("gorm:raw").Register("querymetrics:after_raw", after)
		}},
	}

	for _, h := range hooks {
		action := h.action
		before := func(tx *gorm.DB) {
			tx.InstanceSet(startTimeKey, time.Now())
		}
		after := func(tx *gorm.DB) {
			value, ok := tx.InstanceGet(startTimeKey)
			if !ok {
				return
			}
			start, ok := value.(time.Time)
			if !ok {
				return
			}
			p.rec.Observe(tableLabel(tx), action, time.Since(start))
		}
		if err := h.register(before, after); err != nil {
			return err
		}
	}
	return nil
}

func tableLabel(tx *gorm.DB) string {
	if tx.Statement != nil && tx.Statement.Table != "" {
		return tx.Statement.Table
	}
	return "unknown"
}
