package report

// Medication is what the kiosk dispenses.
type Medication struct {
	Name         string
	Dosage       string
	Quantity     string
	Instructions string
	SideEffects  []string
	Warnings     []string
}

// DispensedMedication is the only medication the kiosk stocks.
var DispensedMedication = Medication{
	Name:         "Ibuprofen",
	Dosage:       "200mg",
	Quantity:     "10 tablets",
	Instructions: "Take 1-2 tablets every 4-6 hours as needed for pain. Do not exceed 6 tablets in 24 hours.",
	SideEffects:  []string{"Upset stomach", "Heartburn", "Dizziness", "Mild headache"},
	Warnings: []string{
		"Do not use if you have a history of stomach ulcers",
		"Do not use if you are allergic to aspirin or other NSAIDs",
		"Consult a doctor if you are pregnant or breastfeeding",
	},
}

// Clinic is a referral destination.
type Clinic struct {
	Name     string
	Address  string
	Phone    string
	Hours    string
	Distance string
}

// NearbyClinics are offered on the referral screen, nearest first.
var NearbyClinics = []Clinic{
	{
		Name:     "City Health Medical Center",
		Address:  "123 Main Street, Cityville",
		Phone:    "(555) 123-4567",
		Hours:    "Mon-Fri: 8am-6pm, Sat: 9am-1pm",
		Distance: "0.8 miles",
	},
	{
		Name:     "Westside Family Practice",
		Address:  "456 Oak Avenue, Cityville",
		Phone:    "(555) 987-6543",
		Hours:    "Mon-Fri: 9am-5pm",
		Distance: "1.2 miles",
	},
	{
		Name:     "Eastside Urgent Care",
		Address:  "789 Pine Street, Cityville",
		Phone:    "(555) 456-7890",
		Hours:    "Daily: 8am-8pm",
		Distance: "2.5 miles",
	},
}

// ConsultingDoctor answers video consultations.
const ConsultingDoctor = "Dr. Sarah Johnson"
