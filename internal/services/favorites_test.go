package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleRecipeIDAddsWhenAbsent(t *testing.T) {
	t.Parallel()

	id := primitive.NewObjectID()
	out, isFavorite := toggleRecipeID(nil, id)
	if !isFavorite {
		t.Fatalf("expected isFavorite=true after adding")
	}
	if len(out) != 1 || out[0] != id {
		t.Fatalf("expected [%s], got %v", id.Hex(), out)
	}
}

func TestToggleRecipeIDRemovesWhenPresent(t *testing.T) {
	t.Parallel()

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	out, isFavorite := toggleRecipeID([]primitive.ObjectID{a, b, c}, b)
	if isFavorite {
		t.Fatalf("expected isFavorite=false after removing")
	}
	if len(out) != 2 || out[0] != a || out[1] != c {
		t.Fatalf("expected insertion order preserved without b, got %v", out)
	}
}

// Two consecutive toggles return the set to its pre-call membership state.
func TestToggleRecipeIDRoundTrip(t *testing.T) {
	t.Parallel()

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	id := primitive.NewObjectID()
	start := []primitive.ObjectID{a, b}

	once, first := toggleRecipeID(start, id)
	twice, second := toggleRecipeID(once, id)

	if !first || second {
		t.Fatalf("expected true then false, got %v then %v", first, second)
	}
	if len(twice) != len(start) {
		t.Fatalf("round trip changed length: %v", twice)
	}
	for i := range start {
		if twice[i] != start[i] {
			t.Fatalf("round trip changed contents: got %v want %v", twice, start)
		}
	}

	// And starting from a member: remove then re-add appends at the end
	removed, nowMember := toggleRecipeID(start, a)
	if nowMember {
		t.Fatalf("expected removal")
	}
	readded, member := toggleRecipeID(removed, a)
	if !member {
		t.Fatalf("expected re-add")
	}
	if len(readded) != 2 || readded[1] != a {
		t.Fatalf("re-added id should append at the end, got %v", readded)
	}
}

func TestToggleRecipeIDDoesNotMutateShared(t *testing.T) {
	t.Parallel()

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()
	ids := []primitive.ObjectID{a, b, c}

	out, _ := toggleRecipeID(ids, a)
	if len(out) != 2 {
		t.Fatalf("expected 2 ids, got %v", out)
	}
	// The input slice stays intact for callers holding a reference
	if ids[0] != a || ids[1] != b || ids[2] != c {
		t.Fatalf("input slice mutated: %v", ids)
	}
}
