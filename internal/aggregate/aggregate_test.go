package aggregate

import (
	"reflect"
	"testing"
	"time"

	"github.com/five82/lookout/internal/detection"
)

func at(ts, cam string, typ detection.ObjectType) detection.Record {
	return detection.Record{Timestamp: ts, CameraID: cam, ObjectType: typ}
}

func TestDaily(t *testing.T) {
	recs := []detection.Record{
		at("2024-01-06T01:00:00Z", "CAM001", detection.ObjectPerson),
		at("2024-01-05T10:00:00Z", "CAM001", detection.ObjectPerson),
		at("2024-01-05T23:59:59Z", "CAM002", detection.ObjectVehicle),
		at("garbage", "CAM002", detection.ObjectVehicle),
	}
	got := Daily(recs, time.UTC)
	want := []DailyCount{
		{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Count: 2},
		{Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Daily = %#v, want %#v", got, want)
	}
}

func TestObjectTypes_KnownFirstThenSorted(t *testing.T) {
	recs := []detection.Record{
		at("", "", "drone"),
		at("", "", detection.ObjectAnimal),
		at("", "", detection.ObjectPerson),
		at("", "", detection.ObjectPerson),
		at("", "", "bicycle"),
	}
	got := ObjectTypes(recs)
	want := []TypeCount{
		{Type: detection.ObjectPerson, Count: 2},
		{Type: detection.ObjectAnimal, Count: 1},
		{Type: "bicycle", Count: 1},
		{Type: "drone", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ObjectTypes = %#v, want %#v", got, want)
	}
}

func TestHourly_Window(t *testing.T) {
	now := time.Date(2024, 1, 5, 10, 42, 0, 0, time.UTC)
	recs := []detection.Record{
		at("2024-01-05T10:05:00Z", "CAM001", detection.ObjectPerson), // current hour
		at("2024-01-05T09:59:59Z", "CAM001", detection.ObjectPerson),
		at("2024-01-04T11:00:00Z", "CAM001", detection.ObjectPerson), // first bucket
		at("2024-01-04T10:59:59Z", "CAM001", detection.ObjectPerson), // too old
		at("2024-01-05T11:00:00Z", "CAM001", detection.ObjectPerson), // future
	}
	got := Hourly(recs, now)
	if len(got) != 24 {
		t.Fatalf("len = %d, want 24", len(got))
	}
	if got[0].Label != "11:00" || got[0].Count != 1 {
		t.Fatalf("first bucket = %#v, want 11:00 with 1", got[0])
	}
	if got[22].Label != "09:00" || got[22].Count != 1 {
		t.Fatalf("bucket 22 = %#v, want 09:00 with 1", got[22])
	}
	if got[23].Label != "10:00" || got[23].Count != 1 {
		t.Fatalf("last bucket = %#v, want 10:00 with 1", got[23])
	}
	total := 0
	for _, b := range got {
		total += b.Count
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
}

func TestCameras(t *testing.T) {
	recs := []detection.Record{
		at("", "CAM002", detection.ObjectPerson),
		at("", "CAM001", detection.ObjectPerson),
		at("", "CAM002", detection.ObjectPerson),
	}
	got := Cameras(recs)
	want := []CameraActivity{{CameraID: "CAM001", Count: 1}, {CameraID: "CAM002", Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Cameras = %#v, want %#v", got, want)
	}
}

func TestHourly_HalfHourOffsetZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	now := time.Date(2024, 1, 5, 10, 45, 0, 0, ist)
	recs := []detection.Record{
		at("2024-01-05T04:35:00Z", "CAM001", detection.ObjectPerson), // 10:05 IST
		at("2024-01-05T04:25:00Z", "CAM001", detection.ObjectPerson), // 09:55 IST
	}
	got := Hourly(recs, now)
	last := got[23]
	wantStart := time.Date(2024, 1, 5, 10, 0, 0, 0, ist)
	if !last.Start.Equal(wantStart) || last.Label != "10:00" || last.Count != 1 {
		t.Fatalf("last bucket = %#v, want 10:00 IST with 1", last)
	}
	if got[22].Label != "09:00" || got[22].Count != 1 {
		t.Fatalf("bucket 22 = %#v, want 09:00 with 1", got[22])
	}
	if got[0].Label != "11:00" {
		t.Fatalf("first bucket label = %q, want 11:00", got[0].Label)
	}
}
