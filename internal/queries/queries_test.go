package queries

import (
	"strings"
	"testing"

	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

func TestInsertNodeNullableOwner(t *testing.T) {
	stmt := InsertNode(nodes.Node{Type: schema.TypeSurveyors})
	if v, ok := stmt.Args[1].(*int64); !ok || v != nil {
		t.Fatalf("root owner id arg = %v", stmt.Args[1])
	}
	if stmt.Args[2] != nil {
		t.Fatalf("root owner type arg = %v, want nil", stmt.Args[2])
	}
	if !strings.Contains(stmt.SQL, "RETURNING id") {
		t.Fatalf("insert must return the generated id: %s", stmt.SQL)
	}

	ownerID := int64(7)
	stmt = InsertNode(nodes.Node{Type: schema.TypeSurveys, OwnerID: &ownerID, OwnerType: schema.TypeSurveyors})
	if stmt.Args[2] != "surveyors" {
		t.Fatalf("owner type arg = %v", stmt.Args[2])
	}
}

func TestEntityStatementsUseTypeTable(t *testing.T) {
	stmt := SelectEntity(schema.TypeStations, 5)
	if !strings.Contains(stmt.SQL, "FROM stations") {
		t.Fatalf("entity select table: %s", stmt.SQL)
	}
	if len(stmt.Args) != 1 || stmt.Args[0] != int64(5) {
		t.Fatalf("entity select args: %v", stmt.Args)
	}

	ins, err := InsertEntity(schema.TypeStations, 5, map[string]any{"name": "TEST"})
	if err != nil {
		t.Fatalf("insert entity: %v", err)
	}
	if !strings.Contains(ins.SQL, "INSERT INTO stations") {
		t.Fatalf("entity insert table: %s", ins.SQL)
	}
	doc, ok := ins.Args[1].([]byte)
	if !ok || !strings.Contains(string(doc), `"name":"TEST"`) {
		t.Fatalf("entity insert document: %v", ins.Args[1])
	}

	if _, err := InsertEntity(schema.TypeStations, 5, map[string]any{"bad": make(chan int)}); err == nil {
		t.Fatalf("unencodable attribute data must fail")
	}
}

func TestComparisonStatementsCoverBothSides(t *testing.T) {
	stmt := SelectComparisons(9)
	if !strings.Contains(stmt.SQL, "historic_captures = $1 OR modern_captures = $1") {
		t.Fatalf("comparison select must match either side: %s", stmt.SQL)
	}
	del := DeleteComparisons(9)
	if !strings.Contains(del.SQL, "historic_captures = $1 OR modern_captures = $1") {
		t.Fatalf("comparison delete must match either side: %s", del.SQL)
	}
	ins := InsertComparison(nodes.Comparison{HistoricCaptures: 1, ModernCaptures: 2})
	if ins.Args[0] != int64(1) || ins.Args[1] != int64(2) {
		t.Fatalf("comparison insert args: %v", ins.Args)
	}
}
