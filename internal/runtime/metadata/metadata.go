// Package metadata models the string headers ticketflow attaches to broker
// messages. The originating channel, partition key, RPC method, and payload
// encoding travel here instead of in the message body.
package metadata

// Metadata is the header set carried alongside a published message.
type Metadata map[string]string

// New builds a header set from alternating key/value pairs. A trailing key
// without a value is dropped.
func New(pairs ...string) Metadata {
	md := make(Metadata, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		md[pairs[i]] = pairs[i+1]
	}
	return md
}

// Clone returns an independent copy of the header set.
func (m Metadata) Clone() Metadata {
	cloned := make(Metadata, len(m))
	for k, v := range m {
		cloned[k] = v
	}
	return cloned
}

// With returns a copy of the header set with one entry added or replaced.
// The receiver is never mutated, so shared base headers stay intact.
func (m Metadata) With(key, value string) Metadata {
	cloned := make(Metadata, len(m)+1)
	for k, v := range m {
		cloned[k] = v
	}
	cloned[key] = value
	return cloned
}

// WithAll returns a copy of the header set merged with the given entries.
// Entries win over existing keys.
func (m Metadata) WithAll(entries Metadata) Metadata {
	cloned := make(Metadata, len(m)+len(entries))
	for k, v := range m {
		cloned[k] = v
	}
	for k, v := range entries {
		cloned[k] = v
	}
	return cloned
}
