// Package driver implements the executor and introspector interfaces for
// Neo4j over Bolt, using the official Go driver.
package driver

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-version"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/satishbabariya/cypher-go/internal/debug"
	"github.com/satishbabariya/cypher-go/migrate/introspect"
)

// minServerVersion is the oldest server the schema surface is written
// against: SHOW CONSTRAINTS / SHOW INDEXES for introspection, and the
// FOR/REQUIRE and name-based drop forms for DDL. Both are available from
// 4.4 through 5.x.
var minServerVersion = version.Must(version.NewVersion("4.4.0"))

// Config holds Neo4j connection configuration.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Driver wraps a Bolt connection. It satisfies the client Executor and
// the migrate Introspector interfaces.
type Driver struct {
	client   neo4j.DriverWithContext
	database string

	serverVersion *version.Version
	edition       string
}

// New creates a driver, verifies connectivity, and probes the server
// version and edition. Servers older than 4.4 are rejected.
func New(ctx context.Context, cfg Config) (*Driver, error) {
	client, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		client.Close(ctx)
		return nil, fmt.Errorf("connecting to neo4j: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = "neo4j"
	}
	d := &Driver{client: client, database: database}

	if err := d.probeServer(ctx); err != nil {
		client.Close(ctx)
		return nil, err
	}
	debug.Info("connected to neo4j", "version", d.serverVersion.String(), "edition", d.edition)
	return d, nil
}

// Close closes the underlying connection.
func (d *Driver) Close(ctx context.Context) error {
	return d.client.Close(ctx)
}

// ServerVersion returns the probed server version.
func (d *Driver) ServerVersion() *version.Version {
	return d.serverVersion
}

// Enterprise reports whether the server runs the enterprise edition,
// which is required for property existence constraints.
func (d *Driver) Enterprise() bool {
	return d.edition == "enterprise"
}

// Execute runs a Cypher query with parameters and returns one map per
// result row. Node values are flattened to their property maps.
func (d *Driver) Execute(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	session := d.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: d.database})
	defer session.Close(ctx)

	rows, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		out := make([]map[string]any, 0, len(records))
		for _, record := range records {
			row := make(map[string]any, len(record.Keys))
			for _, key := range record.Keys {
				value, _ := record.Get(key)
				row[key] = flattenValue(value)
			}
			out = append(out, row)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return rows.([]map[string]any), nil
}

// Constraints lists the node constraints via SHOW CONSTRAINTS.
func (d *Driver) Constraints(ctx context.Context) ([]introspect.Entry, error) {
	rows, err := d.Execute(ctx, "SHOW CONSTRAINTS YIELD name, type, entityType, labelsOrTypes, properties", nil)
	if err != nil {
		return nil, err
	}

	var entries []introspect.Entry
	for _, row := range rows {
		if asString(row["entityType"]) != "NODE" {
			continue
		}
		kind, ok := constraintKind(asString(row["type"]))
		if !ok {
			continue
		}
		entries = append(entries, introspect.Entry{
			Name:       asString(row["name"]),
			Label:      firstString(row["labelsOrTypes"]),
			Properties: stringSlice(row["properties"]),
			Kind:       kind,
		})
	}
	return entries, nil
}

// Indexes lists the plain node indexes via SHOW INDEXES, excluding
// internal lookup indexes and the backing indexes owned by constraints.
func (d *Driver) Indexes(ctx context.Context) ([]introspect.Entry, error) {
	rows, err := d.Execute(ctx, "SHOW INDEXES YIELD name, type, entityType, labelsOrTypes, properties, owningConstraint", nil)
	if err != nil {
		return nil, err
	}

	var entries []introspect.Entry
	for _, row := range rows {
		if !plainIndexRow(asString(row["entityType"]), asString(row["type"]), row["owningConstraint"]) {
			continue
		}
		entries = append(entries, introspect.Entry{
			Name:       asString(row["name"]),
			Label:      firstString(row["labelsOrTypes"]),
			Properties: stringSlice(row["properties"]),
			Kind:       introspect.KindIndex,
		})
	}
	return entries, nil
}

func (d *Driver) probeServer(ctx context.Context) error {
	rows, err := d.Execute(ctx, "CALL dbms.components() YIELD name, versions, edition", nil)
	if err != nil {
		return fmt.Errorf("probing server version: %w", err)
	}
	for _, row := range rows {
		versions := stringSlice(row["versions"])
		if len(versions) == 0 {
			continue
		}
		v, err := version.NewVersion(versions[0])
		if err != nil {
			return fmt.Errorf("parsing server version %q: %w", versions[0], err)
		}
		d.serverVersion = v
		d.edition = asString(row["edition"])
		break
	}
	if d.serverVersion == nil {
		return fmt.Errorf("server did not report a version")
	}
	if d.serverVersion.LessThan(minServerVersion) {
		return fmt.Errorf("server version %s is not supported, need %s or newer", d.serverVersion, minServerVersion)
	}
	return nil
}

// flattenValue converts driver values to plain maps and slices.
func flattenValue(value any) any {
	switch v := value.(type) {
	case dbtype.Node:
		return v.Props
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = flattenValue(item)
		}
		return out
	default:
		return value
	}
}

// constraintKind maps SHOW CONSTRAINTS type names onto introspect kinds.
// Both the 4.x and 5.x spellings are recognized.
func constraintKind(typeName string) (introspect.Kind, bool) {
	switch typeName {
	case "UNIQUENESS", "NODE_PROPERTY_UNIQUENESS":
		return introspect.KindUnique, true
	case "NODE_PROPERTY_EXISTENCE":
		return introspect.KindExistence, true
	default:
		return 0, false
	}
}

// plainIndexRow reports whether a SHOW INDEXES row is a droppable plain
// node index.
func plainIndexRow(entityType, indexType string, owningConstraint any) bool {
	if entityType != "NODE" || indexType == "LOOKUP" {
		return false
	}
	// An index owned by a constraint disappears with the constraint and
	// cannot be dropped directly.
	if owner := asString(owningConstraint); owner != "" {
		return false
	}
	return true
}

func asString(value any) string {
	s, _ := value.(string)
	return s
}

func firstString(value any) string {
	items := stringSlice(value)
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

func stringSlice(value any) []string {
	var out []string
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
