package catalog

import (
	"time"

	"itemdex/core/gamedata"
)

// SchemaVersion is written into every exported document.
const SchemaVersion = "1"

// timeLayout is the UTC timestamp format used in exported documents.
const timeLayout = "2006-01-02T15:04:05Z"

// ItemRecord is the metadata.json document for one exported item.
//
// FirstSeenAt is set on the first write for a key and never changes;
// LastUpdatedAt is bumped on every write and is monotonically non-decreasing.
type ItemRecord struct {
	SchemaVersion  string             `json:"schemaVersion"`
	ID             int                `json:"id"`
	NameKey        string             `json:"nameKey"`
	Name           string             `json:"name"`
	DescriptionKey string             `json:"descriptionKey"`
	Order          int                `json:"order"`
	MaxStack       int                `json:"maxStack"`
	Stackable      bool               `json:"stackable"`
	Value          int                `json:"value"`
	Quality        int                `json:"quality"`
	QualityLabel   string             `json:"qualityLabel"`
	Weight         float64            `json:"weight"`
	Tags           []string           `json:"tags"`
	Stats          map[string]float64 `json:"stats"`
	HasDurability  bool               `json:"hasDurability"`
	MaxDurability  int                `json:"maxDurability"`
	Usable         bool               `json:"usable"`
	Consumable     bool               `json:"consumable"`
	SoundKey       string             `json:"soundKey"`
	FirstSeenAt    string             `json:"firstSeenAt"`
	LastUpdatedAt  string             `json:"lastUpdatedAt"`
}

// LanguageEntry holds one language's description texts.
type LanguageEntry struct {
	Name  string `json:"name"`
	Short string `json:"short"`
	Full  string `json:"full"`
}

// DescriptionRecord is the description.json document written next to an
// item's metadata.
type DescriptionRecord struct {
	SchemaVersion string                   `json:"schemaVersion"`
	Languages     map[string]LanguageEntry `json:"languages"`
}

// FormatTime renders a timestamp in the exported document format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// newRecord builds an ItemRecord from a definition snapshot. firstSeenAt is
// carried over from the stored record when one exists.
func newRecord(def gamedata.ItemDefinition, firstSeenAt string, now time.Time) ItemRecord {
	tags := def.Tags
	if tags == nil {
		tags = []string{}
	}
	stats := def.Stats
	if stats == nil {
		stats = map[string]float64{}
	}
	if firstSeenAt == "" {
		firstSeenAt = FormatTime(now)
	}

	return ItemRecord{
		SchemaVersion:  SchemaVersion,
		ID:             def.ID,
		NameKey:        def.NameKey,
		Name:           def.Name,
		DescriptionKey: def.DescriptionKey,
		Order:          def.Order,
		MaxStack:       def.MaxStack,
		Stackable:      def.Stackable,
		Value:          def.Value,
		Quality:        def.Quality,
		QualityLabel:   def.QualityLabel,
		Weight:         def.Weight,
		Tags:           tags,
		Stats:          stats,
		HasDurability:  def.HasDurability,
		MaxDurability:  def.MaxDurability,
		Usable:         def.Usable,
		Consumable:     def.Consumable,
		SoundKey:       def.SoundKey,
		FirstSeenAt:    firstSeenAt,
		LastUpdatedAt:  FormatTime(now),
	}
}

// newDescription builds the DescriptionRecord for a definition.
func newDescription(def gamedata.ItemDefinition) DescriptionRecord {
	languages := make(map[string]LanguageEntry, len(def.Localized))
	for lang, text := range def.Localized {
		languages[lang] = LanguageEntry{
			Name:  text.Name,
			Short: text.Short,
			Full:  text.Full,
		}
	}
	return DescriptionRecord{
		SchemaVersion: SchemaVersion,
		Languages:     languages,
	}
}
