package hook

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/randalmurphal/charmhook/pkg/charmhook/env"
)

// Metadata is the deployment context shared by every recognized event of
// one classification pass.
type Metadata struct {
	Model       string `json:"model"`
	ModelUUID   string `json:"model_uuid"`
	App         string `json:"app"`
	Unit        int    `json:"unit"`
	JujuVersion string `json:"juju_version"`
}

// UnitName reassembles the <app>/<index> unit name.
func (m *Metadata) UnitName() string {
	if m == nil {
		return ""
	}
	return m.App + "/" + strconv.Itoa(m.Unit)
}

// MetadataFromEnv builds Metadata from the model, unit and version
// variables. It fails if any is absent or the unit name is malformed.
func MetadataFromEnv(src env.Source) (*Metadata, error) {
	values, err := env.Require(src, env.ModelName, env.ModelUUID, env.UnitName, env.JujuVersion)
	if err != nil {
		return nil, err
	}

	app, index, err := ParseUnitName(values[2])
	if err != nil {
		return nil, err
	}

	return &Metadata{
		Model:       values[0],
		ModelUUID:   values[1],
		App:         app,
		Unit:        index,
		JujuVersion: values[3],
	}, nil
}

// ParseUnitName splits "myapp/3" into ("myapp", 3).
func ParseUnitName(s string) (string, int, error) {
	app, num, ok := strings.Cut(s, "/")
	if !ok || app == "" || strings.Contains(num, "/") {
		return "", 0, fmt.Errorf("%w: %q", ErrMalformedUnitName, s)
	}
	index, err := parseIndex(num)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: %v", ErrMalformedUnitName, s, err)
	}
	return app, index, nil
}

// ParseRelationID splits "db:7" into ("db", 7).
func ParseRelationID(s string) (string, int, error) {
	name, num, ok := strings.Cut(s, ":")
	if !ok || name == "" || strings.Contains(num, ":") {
		return "", 0, fmt.Errorf("%w: %q", ErrMalformedRelationID, s)
	}
	id, err := parseIndex(num)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: %v", ErrMalformedRelationID, s, err)
	}
	return name, id, nil
}

// parseIndex accepts decimal digits only, so signs and whitespace are
// rejected.
func parseIndex(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty number")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid digit %q", r)
		}
	}
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
