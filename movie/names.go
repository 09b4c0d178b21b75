package movie

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

var errEmptyPool = errors.New("movie: empty name pool")

// defaultNamePool seeds the daily batch when the caller supplies no names.
var defaultNamePool = []string{
	"Liam", "Noah", "Oliver", "James", "Elijah", "Mateo", "Theodore", "Henry", "Lucas", "William",
	"Benjamin", "Levi", "Sebastian", "Jack", "Ezra", "Michael", "Daniel", "Leo", "Owen", "Samuel",
	"Hudson", "Alexander", "Asher", "Luca", "Ethan", "John", "David", "Jackson", "Joseph",
	"Mason", "Luke", "Matthew", "Julian", "Dylan", "Elias", "Jacob", "Maverick", "Gabriel",
	"Logan", "Aiden", "Thomas", "Isaac", "Miles", "Grayson", "Santiago", "Anthony", "Wyatt",
	"Carter", "Jayden", "Ezekiel", "Caleb", "Cooper", "Josiah", "Charles", "Christopher",
	"Isaiah", "Nolan", "Cameron", "Nathan", "Joshua", "Kai", "Waylon", "Angel", "Lincoln",
	"Andrew", "Roman", "Adrian", "Aaron", "Wesley", "Ian", "Thiago", "Axel", "Brooks", "Bennett",
	"Weston", "Rowan", "Christian", "Theo", "Beau", "Eli", "Silas", "Jonathan", "Ryan",
	"Leonardo", "Walker", "Jaxon", "Micah", "Everett", "Robert", "Enzo", "Parker", "Jeremiah",
	"Jose", "Colton", "Luka", "Easton", "Landon", "Jordan", "Amir", "Gael", "Austin", "Adam",
	"Jameson", "August", "Xavier", "Myles", "Dominic", "Damian", "Nicholas", "Jace", "Carson",
	"Atlas", "Adriel", "Kayden", "Hunter", "River", "Greyson", "Emmett", "Harrison", "Vincent",
	"Milo", "Jasper", "Giovanni", "Jonah", "Zion", "Connor", "Sawyer", "Arthur", "Ryder",
	"Archer", "Lorenzo", "Declan", "Olivia", "Emma", "Charlotte", "Amelia", "Sophia", "Mia",
	"Isabella", "Ava", "Evelyn", "Luna", "Harper", "Sofia", "Camila", "Eleanor", "Elizabeth",
	"Violet", "Scarlett", "Emily", "Hazel", "Lily", "Gianna", "Aurora", "Penelope", "Aria",
	"Nora", "Chloe", "Ellie", "Mila", "Avery", "Layla", "Abigail", "Ella", "Isla", "Eliana",
	"Nova", "Madison", "Zoe", "Ivy", "Grace", "Lucy", "Willow", "Emilia", "Riley", "Naomi",
	"Victoria", "Stella", "Elena", "Hannah", "Valentina", "Maya", "Zoey", "Delilah", "Leah",
	"Lainey", "Lillian", "Paisley", "Genesis", "Madelyn", "Sadie", "Sophie", "Leilani", "Addison",
	"Natalie", "Josephine", "Alice", "Ruby", "Claire", "Kinsley", "Everly", "Emery", "Adeline",
	"Kennedy", "Maeve", "Audrey", "Autumn", "Athena", "Eden", "Iris", "Anna", "Eloise", "Jade",
	"Maria", "Caroline", "Brooklyn", "Quinn", "Aaliyah", "Vivian", "Liliana", "Gabriella",
	"Hailey", "Sarah", "Savannah", "Cora", "Madeline", "Natalia", "Ariana", "Lydia", "Lyla",
	"Clara", "Allison", "Aubrey", "Millie", "Melody", "Ayla", "Serenity", "Bella", "Skylar",
	"Josie", "Lucia", "Daisy", "Raelynn", "Eva", "Juniper", "Samantha", "Elliana", "Eliza",
	"Rylee", "Nevaeh", "Hadley", "Alaia", "Parker", "Julia", "Amara", "Rose", "Charlie", "Ashley",
	"Remi", "Georgia", "Adalynn", "Melanie", "Amira", "Margaret", "Piper",
}

// DefaultNamePool returns a copy of the built-in name pool.
func DefaultNamePool() []string {
	out := make([]string, len(defaultNamePool))
	copy(out, defaultNamePool)
	return out
}

// PickUniform returns a uniformly distributed index into pool drawn from rng.
func PickUniform(pool []string, rng io.Reader) (int, error) {
	if len(pool) == 0 {
		return 0, errEmptyPool
	}
	n, err := rand.Int(rng, big.NewInt(int64(len(pool))))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
