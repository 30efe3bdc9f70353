// Package detection defines the wire types shared by the bulk-fetch client, the
// live stream and the query engine.
//
// A Record is one detection event: an id, an ISO-8601 timestamp, the camera that
// produced it, the object type and a confidence score. The live stream producer
// is known to serialize confidenceScore as text ("0.42"), so Score decodes from
// either a JSON number or a numeric string. Anything else makes the record
// malformed and DecodeRecord returns an error; callers drop such messages.
//
// Ids are not required to be unique and object types are not validated on
// decode. Camera references are not checked against the camera list.
package detection
