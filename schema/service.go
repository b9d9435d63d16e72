package schema

import "fmt"

// RPCMethod is one `rpc` declaration inside a Service: a name plus symbolic
// references to its request/response Message types (spec.md §3, §4.5).
type RPCMethod struct {
	Node
	RequestTypeName  string
	ResponseTypeName string
	RequestStream    bool
	ResponseStream   bool

	resolvedRequest  *Message
	resolvedResponse *Message
}

func (m *RPCMethod) ClassName() string { return "RPCMethod" }

// RequestType returns the resolved request Message, or nil before
// Service.ResolveAll has run.
func (m *RPCMethod) RequestType() *Message { return m.resolvedRequest }

// ResponseType returns the resolved response Message, or nil before
// Service.ResolveAll has run.
func (m *RPCMethod) ResponseType() *Message { return m.resolvedResponse }

// NewRPCMethod builds an RPCMethod ready to be added to a Service.
func NewRPCMethod(name, requestTypeName, responseTypeName string) *RPCMethod {
	return &RPCMethod{Node: Node{name: name}, RequestTypeName: requestTypeName, ResponseTypeName: responseTypeName}
}

// Service is a Namespace whose children are RPCMethods — the schema node
// behind a `service` declaration (spec.md §3, §4.5).
type Service struct {
	Namespace
	methods []*RPCMethod
}

// NewService creates an empty service declaration.
func NewService(name string) *Service {
	return &Service{Namespace: *NewNamespace(name)}
}

func (s *Service) ClassName() string { return "Service" }

// ToString overrides the embedded Namespace.ToString for the same reason
// Message does (see elementToString).
func (s *Service) ToString(includeClass bool) string { return elementToString(s, includeClass) }

// String implements fmt.Stringer as ToString(false).
func (s *Service) String() string { return s.ToString(false) }

// AddMethod adds an RPC method, enforcing name uniqueness via
// Namespace.AddChild.
func (s *Service) AddMethod(m *RPCMethod) error {
	if err := s.AddChild(m); err != nil {
		return err
	}
	s.methods = append(s.methods, m)
	return nil
}

// Methods returns the service's RPC methods in declaration order.
func (s *Service) Methods() []*RPCMethod { return s.methods }

// ResolveAll resolves each method's request/response type references
// lexically from the service's enclosing scope (request/response messages
// are ordinarily siblings of the service, not nested inside it).
func (s *Service) ResolveAll() error {
	scope := s.Parent()
	ns, ok := scope.(*Namespace)
	if !ok {
		if msgScope, ok2 := scope.(*Message); ok2 {
			ns = &msgScope.Namespace
		}
	}
	for _, m := range s.methods {
		if ns == nil {
			return &UnresolvedTypeError{Field: m.FullyQualifiedName(), TypeName: m.RequestTypeName}
		}
		req := ns.Resolve(m.RequestTypeName, false)
		reqMsg, ok := req.(*Message)
		if !ok {
			return &UnresolvedTypeError{Field: m.FullyQualifiedName(), TypeName: m.RequestTypeName}
		}
		resp := ns.Resolve(m.ResponseTypeName, false)
		respMsg, ok := resp.(*Message)
		if !ok {
			return &UnresolvedTypeError{Field: m.FullyQualifiedName(), TypeName: m.ResponseTypeName}
		}
		m.resolvedRequest = reqMsg
		m.resolvedResponse = respMsg
	}
	return nil
}

// Transport performs the actual wire call for one RPC: given the method
// being invoked and its already-encoded request bytes, it returns the raw
// response bytes (or an error) however the caller wants to get them there
// — in-process, over a socket, whatever. Building a Dispatcher is the only
// place this schema package touches anything resembling network I/O, and
// even that is left entirely to the caller (spec.md §1 "RPC transport" is
// out of scope; this is just the dispatch shape around it).
type Transport func(method *RPCMethod, requestBytes []byte) ([]byte, error)

// Dispatcher binds a Service to a Transport, giving callers a single Call
// entry point keyed by method name rather than per-method generated
// functions — consistent with this implementation's decision (spec.md's
// design notes on polymorphic runtime values) to expose only generic
// accessors instead of named ones.
type Dispatcher struct {
	svc       *Service
	transport Transport
}

// Build binds transport to this service. Unlike Message.Build, there is no
// meaningful "rebuild" distinction for a Dispatcher — it carries no cached
// derived state beyond the binding itself.
func (s *Service) Build(transport Transport) *Dispatcher {
	return &Dispatcher{svc: s, transport: transport}
}

// Call encodes request, invokes the transport, decodes the response, and
// invokes callback with the result. Every path to callback — success,
// encode failure, transport failure, decode failure, unknown method — is
// deferred with `go func(){...}()` so callback never runs before Call
// itself returns, matching spec.md §5's "defer all callback invocations to
// the next scheduler tick" concurrency contract.
func (d *Dispatcher) Call(methodName string, request *Value, callback func(*Value, error)) {
	child := d.svc.GetChildByName(methodName)
	method, ok := child.(*RPCMethod)
	if !ok {
		go callback(nil, fmt.Errorf("service %q has no method %q", d.svc.FullyQualifiedName(), methodName))
		return
	}
	reqBytes, err := method.resolvedRequest.EncodeValue(request)
	if err != nil {
		go callback(nil, err)
		return
	}
	go func() {
		respBytes, err := d.transport(method, reqBytes)
		if err != nil {
			callback(nil, err)
			return
		}
		respVal, err := method.resolvedResponse.DecodeValue(respBytes)
		callback(respVal, err)
	}()
}
