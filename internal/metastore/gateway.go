package metastore

import "strings"

// DefaultGateway is the public IPFS HTTP gateway used to fetch documents.
const DefaultGateway = "https://gateway.pinata.cloud/ipfs/"

// ResolveGateway turns an ipfs:// locator into a fetchable HTTPS URL.
// Non-ipfs URIs pass through unchanged.
func ResolveGateway(uri string) string {
	return ResolveGatewayWith(uri, DefaultGateway)
}

// ResolveGatewayWith resolves against a specific gateway prefix.
func ResolveGatewayWith(uri, gateway string) string {
	if cid, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		return gateway + cid
	}
	return uri
}
