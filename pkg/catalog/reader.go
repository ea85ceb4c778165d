package catalog

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

// Asset names one catalog file on disk.
type Asset struct {
	// Path is the location of the catalog.dependency.C file.
	Path string `mapstructure:"path" toml:"path"`
	// Publisher restricts reading to one publisher section of the file.
	// Empty reads every publisher.
	Publisher string `mapstructure:"publisher" toml:"publisher,omitempty"`
}

// Record is one raw package version read from an asset, before parsing.
type Record struct {
	Asset     string
	Ordinal   int // 1-based position in the sorted record sequence
	Publisher string
	Name      string
	Version   string
	Actions   []string
}

// Location formats the asset and ordinal for error messages.
func (r Record) Location() string {
	return r.Asset + ": record " + strconv.Itoa(r.Ordinal)
}

type rawVersion struct {
	Version string   `json:"version"`
	Actions []string `json:"actions"`
}

// ReadAsset reads and decodes a catalog asset from fs. The returned records
// are sorted by name, version text and publisher, and numbered in that
// order. Failures carry [errors.ErrCodeInvalidAsset].
func ReadAsset(fs afero.Fs, asset Asset) ([]Record, error) {
	data, err := afero.ReadFile(fs, asset.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err, "read catalog %s", asset.Path)
	}
	return decodeAsset(asset, data)
}

func decodeAsset(asset Asset, data []byte) ([]Record, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err, "decode catalog %s", asset.Path)
	}

	if asset.Publisher != "" {
		if _, ok := top[asset.Publisher]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidAsset, "catalog %s has no publisher %q", asset.Path, asset.Publisher)
		}
	}

	var records []Record
	for _, publisher := range slices.Sorted(maps.Keys(top)) {
		if strings.HasPrefix(publisher, "_") {
			continue
		}
		if asset.Publisher != "" && publisher != asset.Publisher {
			continue
		}
		var packages map[string][]rawVersion
		if err := json.Unmarshal(top[publisher], &packages); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err, "decode publisher %q in catalog %s", publisher, asset.Path)
		}
		for name, versions := range packages {
			if strings.HasPrefix(name, "_") {
				continue
			}
			for _, v := range versions {
				records = append(records, Record{
					Asset:     asset.Path,
					Publisher: publisher,
					Name:      name,
					Version:   v.Version,
					Actions:   v.Actions,
				})
			}
		}
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Version, b.Version),
			cmp.Compare(a.Publisher, b.Publisher),
		)
	})
	for i := range records {
		records[i].Ordinal = i + 1
	}
	return records, nil
}
