package identity

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

var defaultRNG = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

var (
	ghanaianMaleFirstNames = []string{
		"Kwame", "Kofi", "Kwabena", "Kwaku", "Yaw", "Kwasi", "Kojo", "Fiifi",
		"Nana", "Kobina", "Ekow", "Francis", "Emmanuel", "Samuel", "Daniel", "Isaac",
	}
	ghanaianFemaleFirstNames = []string{
		"Ama", "Akosua", "Abena", "Akua", "Yaa", "Afua", "Adwoa", "Efua",
		"Esi", "Araba", "Adjoa", "Grace", "Mercy", "Comfort", "Gifty", "Priscilla",
	}
	ghanaianLastNames = []string{
		"Mensah", "Owusu", "Boateng", "Asante", "Osei", "Agyeman", "Appiah", "Addo",
		"Amoah", "Ofori", "Darko", "Quaye", "Saah", "Tetteh", "Ansah", "Badu",
	}

	englishMaleFirstNames   = []string{"James", "John", "Michael", "David", "Thomas", "Daniel", "George", "Peter"}
	englishFemaleFirstNames = []string{"Mary", "Sarah", "Emily", "Jane", "Laura", "Grace", "Hannah", "Alice"}
	englishLastNames        = []string{"Smith", "Johnson", "Brown", "Taylor", "Wilson", "Davies", "Evans", "Doe"}

	frenchMaleFirstNames   = []string{"Jean", "Pierre", "Michel", "François", "Nicolas", "Antoine", "Julien", "Hugo"}
	frenchFemaleFirstNames = []string{"Marie", "Sophie", "Camille", "Chloé", "Léa", "Claire", "Juliette", "Élise"}
	frenchLastNames        = []string{"Martin", "Bernard", "Dubois", "Moreau", "Laurent", "Lefebvre", "Fournier", "Girard"}
)

// Name origin weights for demo identities.
const (
	EnglishNameProbability = 0.25
	FrenchNameProbability  = 0.15
)

// GenerateName returns "First Last" for gender "Male" or "Female"; anything
// else is treated as Female. Names are mostly Ghanaian, with 25% English and
// 15% French. If rng is nil, uses the shared default RNG.
func GenerateName(gender string, rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}

	male, female, last := ghanaianMaleFirstNames, ghanaianFemaleFirstNames, ghanaianLastNames
	switch r := rng.Float64(); {
	case r < EnglishNameProbability:
		male, female, last = englishMaleFirstNames, englishFemaleFirstNames, englishLastNames
	case r < EnglishNameProbability+FrenchNameProbability:
		male, female, last = frenchMaleFirstNames, frenchFemaleFirstNames, frenchLastNames
	}

	first := female[rng.IntN(len(female))]
	if gender == "Male" {
		first = male[rng.IntN(len(male))]
	}
	return first + " " + last[rng.IntN(len(last))]
}

// DemoReader fabricates an identity after Delay. The kiosk uses it when no
// OCR service is configured so the flow can be demonstrated end to end.
type DemoReader struct {
	Delay time.Duration
	Rand  *rand.Rand
}

// Read implements Reader.
func (d DemoReader) Read(ctx context.Context) (Person, error) {
	if d.Delay > 0 {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Person{}, ctx.Err()
		case <-timer.C:
		}
	}

	rng := d.Rand
	if rng == nil {
		rng = defaultRNG
	}

	gender := "Female"
	if rng.IntN(2) == 0 {
		gender = "Male"
	}
	return Person{
		Name:     GenerateName(gender, rng),
		Age:      18 + rng.IntN(63),
		Gender:   gender,
		IDNumber: fmt.Sprintf("NHIS-%08d", rng.IntN(100000000)),
	}, nil
}
