// Package loader builds a schema.Namespace tree from parsed `.proto` text.
// Text parsing and AST construction are treated as an out-of-scope external
// collaborator (spec.md §1); this package is the thin adapter that walks
// go-protoparser's AST and populates the reflective schema model, analogous
// to registry.go's processMessage/processField/processEnum/processService —
// adapted to build schema.Node-based entities instead of flat DTOs.
package loader

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	astparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/arihants/protoref/schema"
)

// Load reads every `.proto` file under path (a single file or a directory
// walked recursively, matching Registry.LoadSchema's behavior) and returns
// one merged root Namespace with every file's declarations resolved
// against it.
func Load(path string) (*schema.Namespace, error) {
	root := schema.NewNamespace("")
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		if !strings.HasSuffix(path, ".proto") {
			return nil, fmt.Errorf("file %s is not a .proto file", path)
		}
		if err := loadFileInto(root, path); err != nil {
			return nil, err
		}
	} else {
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, ".proto") {
				return nil
			}
			return loadFileInto(root, p)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory: %w", err)
		}
	}
	if err := resolveAll(root); err != nil {
		return nil, err
	}
	return root, nil
}

// resolveAll runs ResolveAll (and Service.ResolveAll) over every message and
// service reachable from root, matching protobuf.js's root.resolveAll().
func resolveAll(root *schema.Namespace) error {
	for _, child := range root.Children() {
		switch c := child.(type) {
		case *schema.Message:
			if err := c.ResolveAll(); err != nil {
				return err
			}
		case *schema.Namespace:
			if err := resolveAll(c); err != nil {
				return err
			}
		}
	}
	for _, child := range root.Children() {
		if svc, ok := child.(*schema.Service); ok {
			if err := svc.ResolveAll(); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadFileInto parses one file and adds its declarations under root,
// descending into (and creating as needed) the Namespace levels implied by
// its `package` statement.
func loadFileInto(root *schema.Namespace, filePath string) error {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	parsed, err := protoparser.Parse(bytes.NewBuffer(raw))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	scope := root
	for _, body := range parsed.ProtoBody {
		if pkg, ok := body.(*astparser.Package); ok {
			scope, err = namespaceForPackage(root, pkg.Name)
			if err != nil {
				return fmt.Errorf("package %s: %w", pkg.Name, err)
			}
			break
		}
	}

	for _, body := range parsed.ProtoBody {
		switch b := body.(type) {
		case *astparser.Message:
			msg, err := buildMessage(b)
			if err != nil {
				return fmt.Errorf("message %s: %w", b.MessageName, err)
			}
			if err := scope.AddChild(msg); err != nil {
				return err
			}
		case *astparser.Enum:
			en, err := buildEnum(b)
			if err != nil {
				return fmt.Errorf("enum %s: %w", b.EnumName, err)
			}
			if err := scope.AddChild(en); err != nil {
				return err
			}
		case *astparser.Service:
			svc, err := buildService(b)
			if err != nil {
				return fmt.Errorf("service %s: %w", b.ServiceName, err)
			}
			if err := scope.AddChild(svc); err != nil {
				return err
			}
		}
	}
	return nil
}

// namespaceForPackage walks/creates the nested Namespace chain for a
// dotted package name ("foo.bar" -> root/foo/bar), reusing an existing
// level if a previous file in the same package already created it. A
// non-Namespace declaration already holding one of the level names is a
// DuplicateNameError.
func namespaceForPackage(root *schema.Namespace, pkg string) (*schema.Namespace, error) {
	if pkg == "" {
		return root, nil
	}
	cur := root
	for _, part := range strings.Split(pkg, ".") {
		if existing := cur.GetChildByName(part); existing != nil {
			if ns, ok := existing.(*schema.Namespace); ok {
				cur = ns
				continue
			}
		}
		next := schema.NewNamespace(part)
		if err := cur.AddChild(next); err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func buildMessage(m *astparser.Message) (*schema.Message, error) {
	msg := schema.NewMessage(m.MessageName)
	for _, entry := range m.MessageBody {
		switch b := entry.(type) {
		case *astparser.Field:
			f, err := buildField(b)
			if err != nil {
				return nil, err
			}
			if err := msg.AddField(f); err != nil {
				return nil, err
			}
		case *astparser.Enum:
			nested, err := buildEnum(b)
			if err != nil {
				return nil, err
			}
			if err := msg.AddChild(nested); err != nil {
				return nil, err
			}
		case *astparser.Message:
			nested, err := buildMessage(b)
			if err != nil {
				return nil, err
			}
			if err := msg.AddChild(nested); err != nil {
				return nil, err
			}
		}
	}
	return msg, nil
}

func buildField(f *astparser.Field) (*schema.Field, error) {
	number, err := strconv.ParseInt(f.FieldNumber, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("field %s: bad field number %q: %w", f.FieldName, f.FieldNumber, err)
	}
	rule := schema.Optional
	if f.IsRepeated {
		rule = schema.Repeated
	} else if f.IsRequired {
		rule = schema.Required
	}

	var sf *schema.Field
	if scalar, ok := scalarTypes[f.Type]; ok {
		sf = schema.NewScalarField(f.FieldName, int32(number), rule, scalar)
	} else {
		// Not a built-in scalar keyword: a symbolic reference to an enum or
		// message type declared elsewhere, resolved later by ResolveAll.
		// go-protoparser's AST does not distinguish "enum" from "message"
		// references at parse time (neither does a real .proto grammar,
		// without a symbol table), so these fields start tagged KindMessage;
		// Field.resolveAgainst reclassifies to KindEnum once resolution
		// finds the actual declaration.
		sf = schema.NewMessageField(f.FieldName, int32(number), rule, f.Type)
	}
	for _, opt := range f.FieldOptions {
		name, value := strings.Trim(opt.OptionName, `"`), strings.Trim(opt.Constant, `"`)
		sf.SetOption(name, value)
		if name == "default" {
			sf.Default = value
		}
	}
	return sf, nil
}

// scalarTypes maps proto2's built-in scalar keywords to schema.ScalarType.
var scalarTypes = map[string]schema.ScalarType{
	"double": schema.TDouble, "float": schema.TFloat,
	"int32": schema.TInt32, "int64": schema.TInt64,
	"uint32": schema.TUint32, "uint64": schema.TUint64,
	"sint32": schema.TSint32, "sint64": schema.TSint64,
	"fixed32": schema.TFixed32, "fixed64": schema.TFixed64,
	"sfixed32": schema.TSfixed32, "sfixed64": schema.TSfixed64,
	"bool": schema.TBool, "string": schema.TString, "bytes": schema.TBytes,
}

func buildEnum(e *astparser.Enum) (*schema.Enum, error) {
	en := schema.NewEnum(e.EnumName)
	for _, entry := range e.EnumBody {
		field, ok := entry.(*astparser.EnumField)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(field.Number)
		if err != nil {
			return nil, fmt.Errorf("enum value %s: bad number %q: %w", field.Ident, field.Number, err)
		}
		if err := en.AddValue(field.Ident, int32(n)); err != nil {
			return nil, err
		}
	}
	return en, nil
}

func buildService(s *astparser.Service) (*schema.Service, error) {
	svc := schema.NewService(s.ServiceName)
	for _, entry := range s.ServiceBody {
		rpc, ok := entry.(*astparser.RPC)
		if !ok {
			continue
		}
		m := schema.NewRPCMethod(rpc.RPCName, rpc.RPCRequest.MessageType, rpc.RPCResponse.MessageType)
		m.RequestStream = rpc.RPCRequest.IsStream
		m.ResponseStream = rpc.RPCResponse.IsStream
		if err := svc.AddMethod(m); err != nil {
			return nil, err
		}
	}
	return svc, nil
}
