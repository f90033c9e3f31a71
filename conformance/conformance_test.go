package conformance

import "testing"

func TestFixtures(t *testing.T) {
	tests, err := LoadAllTests()
	if err != nil {
		t.Fatalf("loading fixtures: %v", err)
	}
	if len(tests) == 0 {
		t.Fatal("no conformance fixtures found under testdata/")
	}

	for _, lt := range tests {
		lt := lt
		t.Run(lt.Name, func(t *testing.T) {
			if skip, reason := lt.Test.IsSkipped(); skip {
				t.Skip(reason)
			}
			got, err := Run(lt.Test)
			if err != nil {
				t.Fatalf("running %s (%s): %v", lt.Test.Name, lt.File, err)
			}
			if msg := Check(lt.Test.Expect, got); msg != "" {
				t.Errorf("%s: %s", lt.Test.Name, msg)
			}
		})
	}
}
