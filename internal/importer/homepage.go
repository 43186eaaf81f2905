package importer

import (
	"fmt"
	"iter"
	"time"

	"gopkg.in/yaml.v3"
)

// homepageEntry is a single bookmark entry in a Homepage bookmarks.yaml.
type homepageEntry struct {
	Icon string `yaml:"icon"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}

// homepageCategory maps a category name to its bookmarks. The YAML shape
// is: - CategoryName: [ - BookmarkName: [{ icon, abbr, href }] ]; each
// bookmark name maps to a single-entry list.
type homepageCategory map[string][]map[string][]homepageEntry

// homepageConfig is the root structure of bookmarks.yaml.
type homepageConfig []homepageCategory

// ParseHomepageYAML parses a Homepage-style bookmarks.yaml into the same
// candidate stream as ParseNetscape. The category name becomes a tag; the
// format carries no timestamps, so every candidate is stamped with now().
func ParseHomepageYAML(data []byte, now func() time.Time) (iter.Seq[Candidate], error) {
	var config homepageConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}
	if now == nil {
		now = time.Now
	}

	return func(yield func(Candidate) bool) {
		for _, category := range config {
			for categoryName, bookmarkList := range category {
				for _, bookmarkMap := range bookmarkList {
					for bookmarkName, entryList := range bookmarkMap {
						if len(entryList) == 0 {
							continue
						}
						entry := entryList[0]
						if entry.Href == "" {
							continue
						}

						title := bookmarkName
						if entry.Abbr != "" {
							title = entry.Abbr
						}

						c := Candidate{
							URL:       entry.Href,
							Title:     title,
							Tags:      []string{categoryName},
							CreatedAt: now(),
						}
						if !yield(c) {
							return
						}
					}
				}
			}
		}
	}, nil
}
