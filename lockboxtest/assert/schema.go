package assert

import (
	"io/ioutil"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var (
	protoMessage = regexp.MustCompile(`(?ms)^message\s+(\w+)\s*\{(.*?)^\}`)
	protoField   = regexp.MustCompile(`(?m)^\s*(?:repeated\s+)?[\w.]+\s+(\w+)\s*=\s*(\d+)`)
)

// Schema fails unless every message passed has a matching declaration in
// the .proto file at path: same message name, field names and numbers.
func Schema(t Tester, path string, msgs ...interface{}) {
	t.Helper()
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("read schema: %s", err)
	}
	declared := make(map[string]map[string]int)
	for _, m := range protoMessage.FindAllStringSubmatch(string(raw), -1) {
		fields := make(map[string]int)
		for _, f := range protoField.FindAllStringSubmatch(m[2], -1) {
			n, _ := strconv.Atoi(f[2])
			fields[f[1]] = n
		}
		declared[m[1]] = fields
	}

	for _, msg := range msgs {
		typ := reflect.TypeOf(msg)
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		want, ok := declared[typ.Name()]
		if !ok {
			t.Fatalf("%s: message %s not declared", path, typ.Name())
		}
		got := tagFields(typ)
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("%s: message %s declares %v, struct tags give %v", path, typ.Name(), want, got)
		}
	}
}

// tagFields reads name and number from the protobuf tags of a struct.
func tagFields(typ reflect.Type) map[string]int {
	fields := make(map[string]int)
	for i := 0; i < typ.NumField(); i++ {
		tag, ok := typ.Field(i).Tag.Lookup("protobuf")
		if !ok {
			continue
		}
		parts := strings.Split(tag, ",")
		if len(parts) < 2 {
			continue
		}
		n, _ := strconv.Atoi(parts[1])
		for _, p := range parts[2:] {
			if strings.HasPrefix(p, "name=") {
				fields[strings.TrimPrefix(p, "name=")] = n
			}
		}
	}
	return fields
}
