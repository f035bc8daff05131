package packer

import (
	"encoding/base64"
	"fmt"
	"io"
)

// loaderSource installs packed modules into the running interpreter so
// later records can import earlier ones by their canonical names. Code is
// carried base64-encoded to stay independent of quoting pitfalls in the
// host stream.
const loaderSource = `# Generated by pypack. Records execute strictly in order.
import base64 as _pypack_b64
import sys as _pypack_sys
import types as _pypack_types


def _pypack_install(name, is_package, encoded):
    module = _pypack_types.ModuleType(name)
    if is_package:
        module.__path__ = []
        module.__package__ = name
    else:
        module.__package__ = name.rpartition('.')[0]
    _pypack_sys.modules[name] = module
    code = _pypack_b64.b64decode(encoded).decode('utf-8')
    exec(compile(code, '<pypack:' + name + '>', 'exec'), module.__dict__)

`

// writeBundle emits the self-installing Python stream: the loader, then
// one install call per record in pack order.
func writeBundle(w io.Writer, records []Record) error {
	if _, err := io.WriteString(w, loaderSource); err != nil {
		return fmt.Errorf("write bundle loader: %w", err)
	}

	for _, record := range records {
		encoded := base64.StdEncoding.EncodeToString([]byte(record.Code))

		isPackage := "False"
		if record.IsPackage {
			isPackage = "True"
		}

		_, err := fmt.Fprintf(w, "_pypack_install(%q, %s, %q)\n", record.Name, isPackage, encoded)
		if err != nil {
			return fmt.Errorf("write bundle record %s: %w", record.Name, err)
		}
	}

	return nil
}
