package generator

var (
	firstNames = []string{
		"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
		"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Lisa", "Daniel", "Nancy",
		"Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra", "Donald", "Ashley",
		"Steven", "Kimberly", "Paul", "Emily", "Andrew", "Donna", "Joshua", "Michelle",
		"Kenneth", "Carol", "Kevin", "Amanda", "Brian", "Dorothy", "George", "Melissa",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
		"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
		"White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker",
		"Young", "Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill",
	}
	cities = []string{
		"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia",
		"San Antonio", "San Diego", "Dallas", "Austin", "Portland", "Denver",
		"Memphis", "Seattle", "Nashville", "Atlanta", "Miami", "Minneapolis",
	}
	// states lines up with cities by index.
	states = []string{
		"NY", "CA", "IL", "TX", "AZ", "PA", "TX", "CA", "TX", "TX", "OR", "CO",
		"TN", "WA", "TN", "GA", "FL", "MN",
	}
	streets = []string{
		"Main St", "Oak Ave", "Maple Dr", "Cedar Ln", "Pine Rd", "Elm St",
		"Washington Blvd", "Park Ave", "Lake Dr", "Hill St", "River Rd", "Market St",
	}
	adjectives = []string{
		"Premium", "Classic", "Organic", "Fresh", "Artisan", "Select", "Natural",
		"Golden", "Crispy", "Smooth", "Bold", "Deluxe", "Pure", "Zesty", "Savory",
		"Creamy", "Crunchy", "Sweet", "Spicy", "Rich", "Light", "Extra",
	}
	regions = []string{"Northeast", "Southeast", "Midwest", "West", "Southwest"}

	categoryNames = []string{"Beverages", "Snacks", "Fresh", "Household", "Electronics"}
	subcategories = map[string][]string{
		"Beverages":   {"Coffee", "Tea", "Soda", "Juice", "Water", "Energy Drink", "Smoothie"},
		"Snacks":      {"Chips", "Cookies", "Crackers", "Nuts", "Granola Bar", "Popcorn", "Candy"},
		"Fresh":       {"Sandwich", "Salad", "Fruit Cup", "Yogurt", "Wrap", "Sushi Pack", "Soup"},
		"Household":   {"Paper Towels", "Batteries", "Light Bulb", "Trash Bags", "Tape", "Soap", "Sponge"},
		"Electronics": {"USB Cable", "Earbuds", "Phone Case", "Screen Protector", "Charger", "Power Bank", "Adapter"},
	}
	tagPool = []string{"organic", "sale", "new", "popular", "limited", "bulk", "seasonal"}

	loyaltyTiers = []string{"Bronze", "Silver", "Gold", "Platinum"}
	// Cumulative: 50% Bronze, 30% Silver, 15% Gold, 5% Platinum.
	loyaltyThresholds = []float64{0.50, 0.80, 0.95, 1.00}

	paymentMethods = []string{"cash", "credit_card", "debit_card", "mobile_pay"}
	orderStatuses = []string{"completed", "refunded", "voided"}
	// Cumulative: 60% completed, 20% refunded, 20% voided.
	orderStatusThresholds = []float64{0.60, 0.80, 1.00}
)

const skuAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
