package loader

import (
	"testing"

	"github.com/arihants/protoref/schema"
)

func TestLoadPersonProto(t *testing.T) {
	root, err := Load("testdata/person.proto")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pkg, ok := root.GetChildByName("example").(*schema.Namespace)
	if !ok {
		t.Fatalf("expected package namespace %q, got %v", "example", root.Children())
	}

	personElem := pkg.GetChildByName("Person")
	person, ok := personElem.(*schema.Message)
	if !ok {
		t.Fatalf("expected Person message, got %T", personElem)
	}
	if person.FullyQualifiedName() != "example.Person" {
		t.Fatalf("got FQN %q, want %q", person.FullyQualifiedName(), "example.Person")
	}

	nameField, ok := person.FieldByNumber(1)
	if !ok || nameField.Name() != "name" || nameField.Rule != schema.Required {
		t.Fatalf("expected required field 1 'name', got %+v", nameField)
	}

	phonesField, ok := person.FieldByNumber(4)
	if !ok || phonesField.Rule != schema.Repeated || phonesField.Kind != schema.KindMessage {
		t.Fatalf("expected repeated message field 'phones', got %+v", phonesField)
	}
	phoneMsg, ok := phonesField.ResolvedType().(*schema.Message)
	if !ok || phoneMsg.Name() != "Phone" {
		t.Fatalf("expected phones field to resolve to nested Phone message, got %v", phonesField.ResolvedType())
	}

	typeField, ok := phoneMsg.FieldByNumber(2)
	if !ok || typeField.Kind != schema.KindEnum {
		t.Fatalf("expected Phone.type to be reclassified as an enum field, got %+v", typeField)
	}
	if _, ok := typeField.ResolvedType().(*schema.Enum); !ok {
		t.Fatalf("expected Phone.type to resolve to an Enum, got %T", typeField.ResolvedType())
	}

	addrElem := pkg.GetChildByName("AddressBook")
	addrBook, ok := addrElem.(*schema.Message)
	if !ok {
		t.Fatalf("expected AddressBook message, got %T", addrElem)
	}
	peopleField, _ := addrBook.FieldByNumber(1)
	if peopleField == nil || peopleField.ResolvedType().(*schema.Message) != person {
		t.Fatalf("expected AddressBook.people to resolve to the same Person message, got %+v", peopleField)
	}

	svcElem := pkg.GetChildByName("Directory")
	svc, ok := svcElem.(*schema.Service)
	if !ok {
		t.Fatalf("expected Directory service, got %T", svcElem)
	}
	methods := svc.Methods()
	if len(methods) != 1 || methods[0].Name() != "Lookup" {
		t.Fatalf("expected one Lookup method, got %+v", methods)
	}
	if methods[0].RequestType() != person || methods[0].ResponseType() != person {
		t.Fatalf("expected Lookup request/response to resolve to Person")
	}
}
