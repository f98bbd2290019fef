package zones

import "testing"

func testDirectory() *Directory {
	return NewDirectory([]Membership{
		{Zone: "Bedroom", Devices: []string{"HomePOD_Env_Node", "HomePOD_Light_Node"}},
		{Zone: "Living Room", Devices: []string{"HomePOD_Env_Node_2"}},
	})
}

func TestZoneForKnownDevices(t *testing.T) {
	d := testDirectory()

	zone, ok := d.ZoneFor("HomePOD_Light_Node")
	if !ok || zone != "Bedroom" {
		t.Fatalf("HomePOD_Light_Node resolved to %q (ok=%v), want Bedroom", zone, ok)
	}

	zone, ok = d.ZoneFor("HomePOD_Env_Node_2")
	if !ok || zone != "Living Room" {
		t.Fatalf("HomePOD_Env_Node_2 resolved to %q (ok=%v), want Living Room", zone, ok)
	}
}

func TestZoneForUnknownDevice(t *testing.T) {
	d := testDirectory()

	if zone, ok := d.ZoneFor("garage_cam"); ok {
		t.Fatalf("unexpected zone %q for unassigned device", zone)
	}
}

func TestDuplicateDeviceFirstZoneWins(t *testing.T) {
	d := NewDirectory([]Membership{
		{Zone: "Kitchen", Devices: []string{"shared_node"}},
		{Zone: "Hallway", Devices: []string{"shared_node"}},
	})

	zone, ok := d.ZoneFor("shared_node")
	if !ok || zone != "Kitchen" {
		t.Fatalf("shared_node resolved to %q, want Kitchen", zone)
	}
}

func TestPolicyValidation(t *testing.T) {
	for _, p := range []UnassignedPolicy{PolicyLogOnly, PolicyAutoZone, PolicyReject} {
		if !p.Valid() {
			t.Errorf("policy %q should be valid", p)
		}
	}
	if UnassignedPolicy("drop").Valid() {
		t.Error("unknown policy accepted")
	}
}
