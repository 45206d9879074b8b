// Package value defines the payload values actions carry and their canonical
// JSON encoding.
//
// Values are a closed set: Null, String, Int, Bool, Array and Object. Floats
// are not representable, so a recorded action encodes to the same bytes every
// time it is replayed. MarshalCanonical follows RFC 8785 and Fingerprint
// derives content-addressed identities from it.
package value
