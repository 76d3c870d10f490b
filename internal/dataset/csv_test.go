package dataset

import (
	"errors"
	"strings"
	"testing"
)

const sampleCSV = `store,brand,week,logmove,price1,deal,feat,profit
2,1,40,9.02,0.060,1,0.0,37.99
2,1,41,8.72,0.060,0,0.0,30.13
2,1,42,,0.055,0,NA,28.76
5,3,40,7.14,0.042,1,0.5,21.00
`

func TestParseCSV(t *testing.T) {
	obs, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(obs) != 4 {
		t.Fatalf("ParseCSV returned %d rows, want 4", len(obs))
	}

	first := obs[0]
	if first.Store != 2 || first.Brand != 1 || first.Week != 40 {
		t.Errorf("first row key = (%d,%d,%d), want (2,1,40)", first.Store, first.Brand, first.Week)
	}
	if first.Logmove == nil || *first.Logmove != 9.02 {
		t.Errorf("first row Logmove = %v, want 9.02", first.Logmove)
	}
	if first.Measures["price1"] != 0.060 {
		t.Errorf("first row price1 = %v, want 0.060", first.Measures["price1"])
	}
	if first.Measures["deal"] != 1 {
		t.Errorf("first row deal = %v, want 1", first.Measures["deal"])
	}
	if first.Measures["profit"] != 37.99 {
		t.Errorf("first row profit = %v, want 37.99", first.Measures["profit"])
	}

	// Empty and NA cells are absent, not zero.
	third := obs[2]
	if third.Logmove != nil {
		t.Errorf("empty logmove cell should parse as nil, got %v", *third.Logmove)
	}
	if _, ok := third.Measures["feat"]; ok {
		t.Error("NA feat cell should be absent from Measures")
	}
	if third.Measures["price1"] != 0.055 {
		t.Errorf("third row price1 = %v, want 0.055", third.Measures["price1"])
	}
}

func TestParseCSVMissingKeyColumn(t *testing.T) {
	csv := "store,week,logmove\n2,40,9.0\n"

	_, err := ParseCSV(strings.NewReader(csv))
	if err == nil {
		t.Fatal("ParseCSV should fail when the brand column is missing")
	}
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("error %v is not a SchemaError", err)
	}
	if serr.Line != 1 {
		t.Errorf("SchemaError.Line = %d, want 1 (header)", serr.Line)
	}
}

func TestParseCSVBadKeyValue(t *testing.T) {
	csv := "store,brand,week,logmove\n2,one,40,9.0\n"

	_, err := ParseCSV(strings.NewReader(csv))
	if err == nil {
		t.Fatal("ParseCSV should fail on a non-integer brand value")
	}
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("error %v is not a SchemaError", err)
	}
	if serr.Line != 2 {
		t.Errorf("SchemaError.Line = %d, want 2", serr.Line)
	}
}

func TestParseCSVHeaderCase(t *testing.T) {
	csv := "Store,Brand,Week,Logmove\n7,2,55,8.1\n"

	obs, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV returned error for mixed-case header: %v", err)
	}
	if len(obs) != 1 || obs[0].Store != 7 || obs[0].Logmove == nil {
		t.Errorf("mixed-case header not handled: %+v", obs)
	}
}
