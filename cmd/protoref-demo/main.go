// Command protoref-demo loads a .proto file, builds a message factory from
// its reflective schema, round-trips a value through the wire codec, and
// prints the result.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/arihants/protoref/loader"
	"github.com/arihants/protoref/schema"
)

func main() {
	protoPath := flag.String("proto", "", "path to a .proto file or directory")
	messageName := flag.String("message", "", "fully qualified message name to demo")
	flag.Parse()

	if *protoPath == "" || *messageName == "" {
		log.Fatal("usage: protoref-demo -proto <path> -message <fully.qualified.Name>")
	}

	root, err := loader.Load(*protoPath)
	if err != nil {
		log.Fatalf("failed to load %s: %v", *protoPath, err)
	}

	elem := root.Resolve(*messageName, false)
	msg, ok := elem.(*schema.Message)
	if !ok {
		log.Fatalf("%s is not a message (got %T)", *messageName, elem)
	}

	v, err := msg.Build(false)()
	if err != nil {
		log.Fatalf("building an empty %s: %v", msg.ToString(true), err)
	}
	fmt.Printf("built an empty %s\n", msg.ToString(true))

	encoded, err := msg.EncodeValue(v)
	if err != nil {
		fmt.Printf("encode reported: %v (partial: %d bytes)\n", err, len(encoded))
		return
	}
	fmt.Printf("encoded %d bytes: %x\n", len(encoded), encoded)

	decoded, err := msg.DecodeValue(encoded)
	if err != nil {
		log.Fatalf("decode failed: %v", err)
	}
	for _, f := range msg.Fields() {
		val, ok := decoded.Get(f.Name())
		if !ok {
			continue
		}
		fmt.Printf("  %s = %v\n", f.Name(), val)
	}
}
