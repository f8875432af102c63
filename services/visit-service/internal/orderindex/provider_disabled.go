//go:build !protogen

package orderindex

// NewRemoteProvider is a stub until the order-index protobufs are generated;
// builds without the protogen tag always fall back to the in-memory provider.
func NewRemoteProvider(_ string) (Provider, error) {
	return nil, nil
}
