// Package testing provides a scene testing harness for collapsible
// containers.
//
// # Quick Start
//
// Create a tester, load a scene, and make assertions:
//
//	func TestFAQ(t *testing.T) {
//	    tester := colltest.NewSceneTesterWithT(t)
//	    tester.LoadScene(sceneYAML)
//
//	    // Simulate clicks on a trigger
//	    tester.Tap(colltest.ByID("shipping"))
//	    tester.PumpAndSettle(time.Second)
//
//	    // Assert state
//	    if tester.Controller(colltest.ByID("shipping")).IsCollapsed() {
//	        t.Error("expected shipping to be expanded")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare the heights of every managed container:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/faq.snapshot.yaml")
//
// Update snapshots with:
//
//	COLLAPSIBLE_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Animation Testing
//
// Control time for deterministic transitions:
//
//	tester.Clock().Advance(100 * time.Millisecond)
//	tester.Pump()
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import colltest "github.com/go-drift/collapsible/pkg/testing"
package testing
