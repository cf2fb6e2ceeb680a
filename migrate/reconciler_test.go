package migrate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/satishbabariya/cypher-go/migrate/introspect"
	"github.com/satishbabariya/cypher-go/schema"
)

// fakeExecutor records executed statements and can fail on a matching one.
type fakeExecutor struct {
	executed []string
	failOn   string
	failWith error
}

func (f *fakeExecutor) Execute(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	if f.failOn != "" && strings.Contains(cypher, f.failOn) {
		return nil, f.failWith
	}
	f.executed = append(f.executed, cypher)
	return nil, nil
}

// fakeIntrospector serves canned live-schema entries and counts fetches.
type fakeIntrospector struct {
	constraints    []introspect.Entry
	indexes        []introspect.Entry
	constraintErr  error
	indexErr       error
	constraintGets int
	indexGets      int
}

func (f *fakeIntrospector) Constraints(ctx context.Context) ([]introspect.Entry, error) {
	f.constraintGets++
	return f.constraints, f.constraintErr
}

func (f *fakeIntrospector) Indexes(ctx context.Context) ([]introspect.Entry, error) {
	f.indexGets++
	return f.indexes, f.indexErr
}

func userModel(t *testing.T) *schema.Model {
	t.Helper()
	ast, err := schema.ParseSchemaString("user.graph", `
node User {
    id    String @id
    email String @unique
    age   Int    @index
    name  String @required
}
`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	models, err := schema.ModelsFromAst(ast)
	if err != nil {
		t.Fatalf("ModelsFromAst() error = %v", err)
	}
	return models[0]
}

func TestReconcileMigrateDropsThenCreates(t *testing.T) {
	exec := &fakeExecutor{}
	intro := &fakeIntrospector{
		constraints: []introspect.Entry{
			{Name: "uniq_User_email", Label: "User", Properties: []string{"email"}, Kind: introspect.KindUnique},
			// An unrelated label holding a constraint on the same
			// property name must never be touched.
			{Name: "uniq_Account_email", Label: "Account", Properties: []string{"email"}, Kind: introspect.KindUnique},
			// Existence constraints are not part of the drop set.
			{Name: "exist_User_name", Label: "User", Properties: []string{"name"}, Kind: introspect.KindExistence},
		},
		indexes: []introspect.Entry{
			{Name: "idx_User_age", Label: "User", Properties: []string{"age"}, Kind: introspect.KindIndex},
			{Name: "idx_Account_age", Label: "Account", Properties: []string{"age"}, Kind: introspect.KindIndex},
		},
	}

	engine := NewEngine(exec, intro)
	result, err := engine.Reconcile(context.Background(), []*schema.Model{userModel(t)}, ModeMigrate)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	want := []string{
		"DROP CONSTRAINT uniq_User_email",
		"DROP INDEX idx_User_age",
		"CREATE CONSTRAINT FOR (n:User) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT FOR (n:User) REQUIRE n.email IS UNIQUE",
		"CREATE INDEX FOR (n:User) ON (n.age)",
	}
	if len(exec.executed) != len(want) {
		t.Fatalf("executed %d statements, want %d:\n%s", len(exec.executed), len(want), strings.Join(exec.executed, "\n"))
	}
	for i, stmt := range want {
		if exec.executed[i] != stmt {
			t.Errorf("statement %d = %q, want %q", i, exec.executed[i], stmt)
		}
	}
	for _, stmt := range exec.executed {
		if strings.Contains(stmt, "Account") {
			t.Errorf("unrelated label touched: %q", stmt)
		}
	}
	if len(result.Executed) != len(want) {
		t.Errorf("result records %d statements, want %d", len(result.Executed), len(want))
	}
}

// Every rendered statement must use the unified 4.4+/5.x schema syntax:
// creates via FOR/REQUIRE, drops by object name. The legacy ON/ASSERT
// forms were removed in server 5.0 and would fail every statement there.
func TestReconcileRendersUnifiedSyntax(t *testing.T) {
	exec := &fakeExecutor{}
	intro := &fakeIntrospector{
		constraints: []introspect.Entry{
			{Name: "uniq_User_email", Label: "User", Properties: []string{"email"}, Kind: introspect.KindUnique},
		},
		indexes: []introspect.Entry{
			{Name: "idx_User_age", Label: "User", Properties: []string{"age"}, Kind: introspect.KindIndex},
		},
	}

	engine := NewEngine(exec, intro, WithEnterprise(true))
	if _, err := engine.Reconcile(context.Background(), []*schema.Model{userModel(t)}, ModeMigrate); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	for _, stmt := range exec.executed {
		if strings.Contains(stmt, "ASSERT") || strings.Contains(stmt, "exists(") {
			t.Errorf("legacy constraint syntax rendered: %q", stmt)
		}
		if strings.HasPrefix(stmt, "CREATE INDEX ON") || strings.HasPrefix(stmt, "DROP INDEX ON") {
			t.Errorf("legacy index syntax rendered: %q", stmt)
		}
		if strings.HasPrefix(stmt, "DROP") && strings.Contains(stmt, "(") {
			t.Errorf("drop not addressed by name: %q", stmt)
		}
	}
}

// An introspection entry without a server-assigned name cannot be
// dropped; it must be skipped instead of rendering broken DDL.
func TestReconcileSkipsUnnamedEntries(t *testing.T) {
	exec := &fakeExecutor{}
	intro := &fakeIntrospector{
		constraints: []introspect.Entry{
			{Label: "User", Properties: []string{"email"}, Kind: introspect.KindUnique},
		},
		indexes: []introspect.Entry{
			{Label: "User", Properties: []string{"age"}, Kind: introspect.KindIndex},
		},
	}

	engine := NewEngine(exec, intro)
	if _, err := engine.Reconcile(context.Background(), []*schema.Model{userModel(t)}, ModeMigrate); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	for _, stmt := range exec.executed {
		if strings.HasPrefix(stmt, "DROP") {
			t.Errorf("unnamed entry produced a drop: %q", stmt)
		}
	}
}

// Indexes must be listed only after the constraint drops have run, since
// dropping a constraint also removes its backing index.
func TestReconcileMigrateFetchOrdering(t *testing.T) {
	exec := &fakeExecutor{}
	intro := &fakeIntrospector{
		constraints: []introspect.Entry{
			{Name: "uniq_User_email", Label: "User", Properties: []string{"email"}, Kind: introspect.KindUnique},
		},
	}

	engine := NewEngine(exec, intro)
	if _, err := engine.Reconcile(context.Background(), []*schema.Model{userModel(t)}, ModeMigrate); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if intro.constraintGets != 1 || intro.indexGets != 1 {
		t.Errorf("fetch counts = %d constraints, %d indexes; want 1 and 1", intro.constraintGets, intro.indexGets)
	}
}

func TestReconcileUpdateOnlyAddsMissing(t *testing.T) {
	exec := &fakeExecutor{}
	intro := &fakeIntrospector{
		constraints: []introspect.Entry{
			{Name: "uniq_User_id", Label: "User", Properties: []string{"id"}, Kind: introspect.KindUnique},
		},
		indexes: []introspect.Entry{
			{Name: "idx_User_age", Label: "User", Properties: []string{"age"}, Kind: introspect.KindIndex},
		},
	}

	engine := NewEngine(exec, intro)
	result, err := engine.Reconcile(context.Background(), []*schema.Model{userModel(t)}, ModeUpdate)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	// id constraint and age index already exist; only the email
	// constraint is missing. Nothing may be dropped.
	want := []string{"CREATE CONSTRAINT FOR (n:User) REQUIRE n.email IS UNIQUE"}
	if len(exec.executed) != 1 || exec.executed[0] != want[0] {
		t.Fatalf("executed = %v, want %v", exec.executed, want)
	}
	for _, stmt := range result.Executed {
		if strings.HasPrefix(stmt.Cypher, "DROP") {
			t.Errorf("update mode dropped: %q", stmt.Cypher)
		}
	}
}

func TestReconcileEnterpriseExistence(t *testing.T) {
	exec := &fakeExecutor{}
	intro := &fakeIntrospector{}

	engine := NewEngine(exec, intro, WithEnterprise(true))
	result, err := engine.Reconcile(context.Background(), []*schema.Model{userModel(t)}, ModeMigrate)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	var existence []string
	for _, stmt := range result.Executed {
		if stmt.Step == StepCreateExistence {
			existence = append(existence, stmt.Cypher)
		}
	}
	want := []string{
		"CREATE CONSTRAINT FOR (n:User) REQUIRE n.id IS NOT NULL",
		"CREATE CONSTRAINT FOR (n:User) REQUIRE n.name IS NOT NULL",
	}
	if len(existence) != len(want) {
		t.Fatalf("existence statements = %v, want %v", existence, want)
	}
	for i := range want {
		if existence[i] != want[i] {
			t.Errorf("existence[%d] = %q, want %q", i, existence[i], want[i])
		}
	}

	// Existence statements always come last.
	last := result.Executed[len(result.Executed)-1]
	if last.Step != StepCreateExistence {
		t.Errorf("final step = %s, want %s", last.Step, StepCreateExistence)
	}
}

func TestReconcileCommunitySkipsExistence(t *testing.T) {
	exec := &fakeExecutor{}
	engine := NewEngine(exec, &fakeIntrospector{})

	_, err := engine.Reconcile(context.Background(), []*schema.Model{userModel(t)}, ModeMigrate)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	for _, stmt := range exec.executed {
		if strings.Contains(stmt, "IS NOT NULL") {
			t.Errorf("community mode created existence constraint: %q", stmt)
		}
	}
}

func TestReconcileStepErrors(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name     string
		exec     *fakeExecutor
		intro    *fakeIntrospector
		mode     Mode
		wantStep Step
	}{
		{
			name:     "constraint fetch failure",
			exec:     &fakeExecutor{},
			intro:    &fakeIntrospector{constraintErr: boom},
			mode:     ModeMigrate,
			wantStep: StepFetchConstraints,
		},
		{
			name:     "index fetch failure",
			exec:     &fakeExecutor{},
			intro:    &fakeIntrospector{indexErr: boom},
			mode:     ModeMigrate,
			wantStep: StepFetchIndexes,
		},
		{
			name: "drop failure",
			exec: &fakeExecutor{failOn: "DROP CONSTRAINT", failWith: boom},
			intro: &fakeIntrospector{constraints: []introspect.Entry{
				{Name: "uniq_User_email", Label: "User", Properties: []string{"email"}, Kind: introspect.KindUnique},
			}},
			mode:     ModeMigrate,
			wantStep: StepDropConstraints,
		},
		{
			name:     "create failure",
			exec:     &fakeExecutor{failOn: "CREATE CONSTRAINT", failWith: boom},
			intro:    &fakeIntrospector{},
			mode:     ModeMigrate,
			wantStep: StepCreateConstraints,
		},
		{
			name:     "update mode fetch failure",
			exec:     &fakeExecutor{},
			intro:    &fakeIntrospector{constraintErr: boom},
			mode:     ModeUpdate,
			wantStep: StepFetchConstraints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(tt.exec, tt.intro)
			_, err := engine.Reconcile(context.Background(), []*schema.Model{userModel(t)}, tt.mode)

			var stepErr *StepError
			if !errors.As(err, &stepErr) {
				t.Fatalf("expected StepError, got %v", err)
			}
			if stepErr.Step != tt.wantStep {
				t.Errorf("failed step = %s, want %s", stepErr.Step, tt.wantStep)
			}
			if !errors.Is(err, boom) {
				t.Error("underlying error not preserved")
			}
		})
	}
}

// A failing step must abort the remaining pipeline.
func TestReconcileAbortsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	exec := &fakeExecutor{failOn: "DROP CONSTRAINT", failWith: boom}
	intro := &fakeIntrospector{
		constraints: []introspect.Entry{
			{Name: "uniq_User_email", Label: "User", Properties: []string{"email"}, Kind: introspect.KindUnique},
		},
		indexes: []introspect.Entry{
			{Name: "idx_User_age", Label: "User", Properties: []string{"age"}, Kind: introspect.KindIndex},
		},
	}

	engine := NewEngine(exec, intro)
	_, err := engine.Reconcile(context.Background(), []*schema.Model{userModel(t)}, ModeMigrate)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(exec.executed) != 0 {
		t.Errorf("statements executed after failure: %v", exec.executed)
	}
	if intro.indexGets != 0 {
		t.Error("index fetch ran after constraint drop failed")
	}
}
