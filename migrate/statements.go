package migrate

import (
	"fmt"
)

// Schema statements are rendered as literal Cypher: labels and property
// names come from trusted model metadata, and the schema DDL surface does
// not accept parameters anyway. The FOR/REQUIRE forms used here are the
// unified syntax accepted by every supported server (4.4 and all 5.x
// releases); the legacy ON/ASSERT forms were removed in 5.0. Drops
// address schema objects by their server-assigned name, which
// introspection reports.

func createUniqueConstraint(label, property string) string {
	return fmt.Sprintf("CREATE CONSTRAINT FOR (n:%s) REQUIRE n.%s IS UNIQUE", label, property)
}

func createExistenceConstraint(label, property string) string {
	return fmt.Sprintf("CREATE CONSTRAINT FOR (n:%s) REQUIRE n.%s IS NOT NULL", label, property)
}

func createIndex(label, property string) string {
	return fmt.Sprintf("CREATE INDEX FOR (n:%s) ON (n.%s)", label, property)
}

func dropConstraint(name string) string {
	return fmt.Sprintf("DROP CONSTRAINT %s", name)
}

func dropIndex(name string) string {
	return fmt.Sprintf("DROP INDEX %s", name)
}
