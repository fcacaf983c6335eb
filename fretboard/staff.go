package fretboard

// Staff geometry in the renderer's coordinate space. The five staff lines sit
// at y = 50..90; each diatonic step moves 5 units.
const (
	StaffTop    = 50
	StaffBottom = 90
	StaffCenter = 70
	StepHeight  = 5

	// Notes outside these steps need ledger lines.
	lowestStaffStep  = 2
	highestStaffStep = 10

	baseY = 100
)

// StaffLines lists the y of each staff line, top to bottom.
var StaffLines = [5]int{50, 60, 70, 80, 90}

// diatonicStep maps a pitch class to the step of its natural; sharps share the
// step of the natural below them.
var diatonicStep = [12]int{0, 0, 1, 1, 2, 3, 3, 4, 4, 5, 5, 6}

// Placement is a pitch's vertical position on the treble staff.
type Placement struct {
	Step   int   // diatonic steps above the reference C (step 2 = bottom line)
	Y      int   // note head centre
	Ledger []int // y of every ledger line the note needs
}

// StaffPosition places a pitch on a treble staff in guitar notation, which is
// written an octave above sounding pitch: open low E (40) sits three ledger
// lines below the staff and open high E (64) in the top space.
func StaffPosition(p Pitch) Placement {
	step := (floorDiv(int(p), 12)-4)*7 + diatonicStep[p.Class()]
	pl := Placement{Step: step, Y: stepY(step)}

	if step < lowestStaffStep {
		for s := 0; s >= step; s -= 2 {
			pl.Ledger = append(pl.Ledger, stepY(s))
		}
	}
	if step > highestStaffStep {
		for s := 12; s <= step; s += 2 {
			pl.Ledger = append(pl.Ledger, stepY(s))
		}
	}
	return pl
}

func stepY(step int) int {
	return baseY - StepHeight*step
}
