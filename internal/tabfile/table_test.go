package tabfile

import (
	"errors"
	"reflect"
	"testing"
)

func TestReadTable(t *testing.T) {
	path := writeFile(t, "table.csv", "Region,LandClass,2005\nUSA,Crops,1.5\nCanada,Forest,2.25\n")

	tbl, err := ReadTable(path, ',')
	if err != nil {
		t.Fatalf("ReadTable returned error: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len = %d, want 2", tbl.Len())
	}
	if got := tbl.Columns(); !reflect.DeepEqual(got, []string{"Region", "LandClass", "2005"}) {
		t.Errorf("Columns = %v", got)
	}

	// Lookup is case-insensitive.
	if !tbl.Has("region") || !tbl.Has("LANDCLASS") {
		t.Error("Has should match columns case-insensitively")
	}

	regions, err := tbl.Strings("region")
	if err != nil {
		t.Fatalf("Strings returned error: %v", err)
	}
	if !reflect.DeepEqual(regions, []string{"USA", "Canada"}) {
		t.Errorf("Strings(region) = %v", regions)
	}

	vals, err := tbl.Floats("2005")
	if err != nil {
		t.Fatalf("Floats returned error: %v", err)
	}
	if !reflect.DeepEqual(vals, []float64{1.5, 2.25}) {
		t.Errorf("Floats(2005) = %v", vals)
	}
}

func TestTableMissingColumn(t *testing.T) {
	path := writeFile(t, "table.csv", "a,b\n1,2\n")
	tbl, err := ReadTable(path, ',')
	if err != nil {
		t.Fatalf("ReadTable returned error: %v", err)
	}

	_, err = tbl.Strings("missing")
	var merr *MissingFieldError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if !reflect.DeepEqual(merr.Fields, []string{"missing"}) {
		t.Errorf("MissingFieldError.Fields = %v", merr.Fields)
	}
}

func TestTableFloatsParseError(t *testing.T) {
	path := writeFile(t, "table.csv", "a\n1.0\nnot-a-number\n")
	tbl, err := ReadTable(path, ',')
	if err != nil {
		t.Fatalf("ReadTable returned error: %v", err)
	}

	_, err = tbl.Floats("a")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Line != 3 || perr.Column != "a" {
		t.Errorf("ParseError = %+v, want line 3 column a", perr)
	}
}

func TestTableInts(t *testing.T) {
	path := writeFile(t, "table.csv", "metric_id\n12\n3\n")
	tbl, err := ReadTable(path, ',')
	if err != nil {
		t.Fatalf("ReadTable returned error: %v", err)
	}
	ids, err := tbl.Ints("metric_id")
	if err != nil {
		t.Fatalf("Ints returned error: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{12, 3}) {
		t.Errorf("Ints = %v", ids)
	}
}

func TestReadTableEmptyFile(t *testing.T) {
	path := writeFile(t, "table.csv", "")
	if _, err := ReadTable(path, ','); err == nil {
		t.Fatal("expected error for table with no header")
	}
}
