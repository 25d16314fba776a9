package lib

import "testing"
import "strings"
import "reflect"
import "runtime/debug"

func TestParsecsv(t *testing.T) {
	if ss := Parsecsv(""); ss != nil {
		t.Errorf("expected nil, got %v", ss)
	}
	ref := []string{"object", "malloc", "workq"}
	if ss := Parsecsv(" object,malloc ,, workq\n"); !reflect.DeepEqual(ref, ss) {
		t.Errorf("expected %v, got %v", ref, ss)
	}
}

func TestGetStacktrace(t *testing.T) {
	s := GetStacktrace(1, debug.Stack())
	if !strings.Contains(s, "TestGetStacktrace") {
		t.Errorf("unexpected stacktrace %v", s)
	}
	// skip beyond the stack shall not panic.
	GetStacktrace(1000, debug.Stack())
}

func TestPrettystats(t *testing.T) {
	stats := map[string]interface{}{"n_creates": 10}
	if s := Prettystats(stats, false); s != `{"n_creates":10}` {
		t.Errorf("unexpected %v", s)
	} else if s = Prettystats(stats, true); s != "{\n  \"n_creates\": 10\n}" {
		t.Errorf("unexpected %v", s)
	}
}
