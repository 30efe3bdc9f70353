// Package query derives the visible page of detections from the working set.
//
// Engine.Run is a pure function of its inputs: the same records and Filter
// always produce the same Result. Stages run in a fixed order (camera scope,
// text search, time range, camera set, confidence range, object types, sort,
// paginate), and the engine never clamps the requested page.
//
// Columns are an explicit enumeration. Each column carries the strings a
// search may match and a comparator for sorting, so the pipeline never looks
// fields up by name.
package query
