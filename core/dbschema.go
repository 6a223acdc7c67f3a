package core

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Resource is the stored representation of an authorizable object.
// mutable
type Resource struct {
	Ref      string         `json:"ref" gorm:"primaryKey;type:text"`
	Kind     string         `json:"kind" gorm:"type:text"`
	Owner    string         `json:"owner" gorm:"type:text"`
	Tags     pq.StringArray `json:"tags" gorm:"type:text[]"`
	Document string         `json:"document" gorm:"type:json;default:'{}'"`
	CDate    time.Time      `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate    time.Time      `json:"mdate" gorm:"autoUpdateTime"`
}

// Attributes flattens the record into the map handed to rule predicates.
// Document fields come first so the fixed columns always win.
func (r Resource) Attributes() map[string]any {
	attrs := make(map[string]any)
	if r.Document != "" {
		json.Unmarshal([]byte(r.Document), &attrs)
	}
	attrs["ref"] = r.Ref
	attrs["kind"] = r.Kind
	attrs["owner"] = r.Owner
	attrs["tags"] = []string(r.Tags)
	return attrs
}
