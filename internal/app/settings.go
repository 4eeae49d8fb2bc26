package app

import (
	"sync"
	"time"

	"github.com/canevoj/standarium/internal/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SettingsManager reads sys_config rows with a short-lived cache and typed
// accessors. Values are stored as strings and cast on the way out.
type SettingsManager struct {
	db *gorm.DB

	mu      sync.RWMutex
	cache   map[string]string // "category.name" -> value
	loaded  time.Time
	maxAge  time.Duration
}

func NewSettingsManager(db *gorm.DB) *SettingsManager {
	return &SettingsManager{
		db:     db,
		cache:  make(map[string]string),
		maxAge: 30 * time.Second,
	}
}

func (m *SettingsManager) reload() {
	var rows []domain.SysConfig
	if err := m.db.Find(&rows).Error; err != nil {
		zap.L().Error("failed to load settings", zap.Error(err))
		return
	}
	next := make(map[string]string, len(rows))
	for _, row := range rows {
		next[row.Type+"."+row.Name] = row.Value
	}
	m.cache = next
	m.loaded = time.Now()
}

func (m *SettingsManager) value(category, name string) string {
	m.mu.RLock()
	fresh := time.Since(m.loaded) < m.maxAge
	v, ok := m.cache[category+"."+name]
	m.mu.RUnlock()
	if fresh && ok {
		return v
	}

	m.mu.Lock()
	if time.Since(m.loaded) >= m.maxAge {
		m.reload()
	}
	v = m.cache[category+"."+name]
	m.mu.Unlock()
	return v
}

func (m *SettingsManager) GetString(category, name string) string {
	return m.value(category, name)
}

func (m *SettingsManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.value(category, name))
}

func (m *SettingsManager) GetBool(category, name string) bool {
	return cast.ToBool(m.value(category, name))
}

func (m *SettingsManager) GetFloat64(category, name string) float64 {
	return cast.ToFloat64(m.value(category, name))
}

// Set upserts a single setting and invalidates the cache.
func (m *SettingsManager) Set(category, name, value string) error {
	var row domain.SysConfig
	err := m.db.Where("type = ? and name = ?", category, name).First(&row).Error
	if err == nil {
		err = m.db.Model(&domain.SysConfig{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	} else {
		err = m.db.Create(&domain.SysConfig{Type: category, Name: name, Value: value}).Error
	}
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.loaded = time.Time{}
	m.mu.Unlock()
	return nil
}

// DecodeSection decodes all settings of one category into a typed struct via
// mapstructure, with weak typing so "30" fills an int field.
func (m *SettingsManager) DecodeSection(category string, out interface{}) error {
	m.mu.Lock()
	if time.Since(m.loaded) >= m.maxAge {
		m.reload()
	}
	section := make(map[string]interface{})
	for key, v := range m.cache {
		if len(key) > len(category)+1 && key[:len(category)+1] == category+"." {
			section[key[len(category)+1:]] = v
		}
	}
	m.mu.Unlock()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(section)
}
