// persistence/seed.go
package persistence

import (
	"github.com/socialoop/partyhost/models"
)

// SeedSource 内置内容包，零依赖可跑。数据库可用时由服务层把
// 库里的内容叠加在种子之上。
type SeedSource struct{}

func NewSeedSource() *SeedSource {
	return &SeedSource{}
}

// LoadPack 返回种子包的一份拷贝，调用方可以随意改动
func (s *SeedSource) LoadPack() (*models.ContentPack, error) {
	pack := &models.ContentPack{}
	pack.Merge(&seedPack)
	return pack, nil
}

func (s *SeedSource) Close() error { return nil }

var seedPack = models.ContentPack{
	Questions: []models.Question{
		{Text: "Which planet has the most moons?", Options: []string{"Earth", "Mars", "Saturn", "Venus"}, Correct: 2, Category: "science", Difficulty: 1},
		{Text: "What is the largest ocean on Earth?", Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, Correct: 3, Category: "geography", Difficulty: 1},
		{Text: "Which element has the chemical symbol Au?", Options: []string{"Silver", "Gold", "Aluminium", "Argon"}, Correct: 1, Category: "science", Difficulty: 1},
		{Text: "Who painted the Mona Lisa?", Options: []string{"Michelangelo", "Raphael", "Leonardo da Vinci", "Donatello"}, Correct: 2, Category: "art", Difficulty: 1},
		{Text: "In which year did the first person walk on the Moon?", Options: []string{"1965", "1969", "1971", "1974"}, Correct: 1, Category: "history", Difficulty: 2},
		{Text: "What is the capital of Australia?", Options: []string{"Sydney", "Melbourne", "Canberra", "Perth"}, Correct: 2, Category: "geography", Difficulty: 2},
		{Text: "How many strings does a standard violin have?", Options: []string{"4", "5", "6", "7"}, Correct: 0, Category: "music", Difficulty: 1},
		{Text: "Which language has the most native speakers?", Options: []string{"English", "Hindi", "Spanish", "Mandarin"}, Correct: 3, Category: "culture", Difficulty: 2},
		{Text: "What does the HTTP status 404 mean?", Options: []string{"Forbidden", "Not Found", "Timeout", "Server Error"}, Correct: 1, Category: "tech", Difficulty: 1},
		{Text: "Which animal sleeps standing up?", Options: []string{"Horse", "Dog", "Cat", "Bear"}, Correct: 0, Category: "nature", Difficulty: 1},
		{Text: "How many bones are in the adult human body?", Options: []string{"186", "206", "226", "246"}, Correct: 1, Category: "science", Difficulty: 2},
		{Text: "Which country invented paper money?", Options: []string{"Greece", "Italy", "China", "Egypt"}, Correct: 2, Category: "history", Difficulty: 2},
	},
	Estimates: []models.Estimate{
		{Text: "How tall is Mount Everest in meters?", Answer: 8849, Unit: "m"},
		{Text: "How many minutes are there in a week?", Answer: 10080, Unit: "min"},
		{Text: "In what year was the first iPhone released?", Answer: 2007},
		{Text: "How many keys does a standard piano have?", Answer: 88},
		{Text: "How many countries are members of the United Nations?", Answer: 193},
		{Text: "What is the average human body temperature in Celsius?", Answer: 36.6, Unit: "°C"},
		{Text: "How many time zones does Russia span?", Answer: 11},
		{Text: "How long is the Great Wall of China in kilometers?", Answer: 21196, Unit: "km"},
	},
	Spectrums: []models.Spectrum{
		{Left: "Freezing cold", Right: "Burning hot"},
		{Left: "Underrated", Right: "Overrated"},
		{Left: "Guilty pleasure", Right: "Openly proud"},
		{Left: "Weekday energy", Right: "Weekend energy"},
		{Left: "Needs no skill", Right: "Takes a lifetime to master"},
		{Left: "Terrible pizza topping", Right: "Perfect pizza topping"},
		{Left: "Quiet hobby", Right: "Loud hobby"},
		{Left: "Useless superpower", Right: "Game-changing superpower"},
	},
	Dilemmas: []models.Dilemma{
		{OptionA: "Always know when someone is lying", OptionB: "Always get away with lying"},
		{OptionA: "Live without music", OptionB: "Live without movies"},
		{OptionA: "Be able to fly at walking speed", OptionB: "Teleport once per day"},
		{OptionA: "Never wait in line again", OptionB: "Never hit a red light again"},
		{OptionA: "Speak every language badly", OptionB: "Speak three languages perfectly"},
		{OptionA: "Only eat breakfast food", OptionB: "Only eat dinner food"},
		{OptionA: "Rewind one hour once a week", OptionB: "Pause time for one minute daily"},
		{OptionA: "Work your dream job for low pay", OptionB: "Work a boring job for triple pay"},
	},
	WordPairs: []models.WordPair{
		{Common: "coffee", Decoy: "tea", Category: "drinks"},
		{Common: "beach", Decoy: "pool", Category: "places"},
		{Common: "piano", Decoy: "guitar", Category: "music"},
		{Common: "train", Decoy: "subway", Category: "travel"},
		{Common: "butter", Decoy: "margarine", Category: "food"},
		{Common: "moon", Decoy: "sun", Category: "nature"},
		{Common: "novel", Decoy: "comic", Category: "reading"},
		{Common: "winter", Decoy: "autumn", Category: "seasons"},
	},
	Ciphers: []models.Cipher{
		{Plain: "practice makes perfect", Hint: "proverb"},
		{Plain: "the early bird catches the worm", Hint: "proverb"},
		{Plain: "houston we have a problem", Hint: "famous quote"},
		{Plain: "to be or not to be", Hint: "theatre"},
		{Plain: "elementary my dear watson", Hint: "detective fiction"},
		{Plain: "may the force be with you", Hint: "movie line"},
	},
	DrawWords: []string{
		"lighthouse", "volcano", "penguin", "skateboard", "umbrella",
		"castle", "rocket", "snowman", "cactus", "dragon",
		"windmill", "jellyfish", "campfire", "tornado", "robot",
		"waterfall", "pirate", "telescope", "hammock", "submarine",
		"scarecrow", "igloo", "ferris wheel", "treasure chest", "hot air balloon",
	},
	Puzzles: []models.Puzzle{
		{Category: "Phrase", Answer: "PIECE OF CAKE"},
		{Category: "Place", Answer: "GRAND CANYON"},
		{Category: "Thing", Answer: "ELECTRIC GUITAR"},
		{Category: "Phrase", Answer: "BREAK THE ICE"},
		{Category: "Food & Drink", Answer: "CHOCOLATE CHIP COOKIES"},
		{Category: "Event", Answer: "SURPRISE BIRTHDAY PARTY"},
		{Category: "Thing", Answer: "ROLLER COASTER"},
		{Category: "Phrase", Answer: "ONCE IN A BLUE MOON"},
	},
	Boards: []models.BoardCategory{
		{
			Name: "World Capitals",
			Clues: []models.BoardClue{
				{Clue: "The capital of France", Answer: "paris", Value: 100},
				{Clue: "The capital of Canada", Answer: "ottawa", Value: 200},
				{Clue: "The capital of New Zealand", Answer: "wellington", Value: 300},
			},
		},
		{
			Name: "Science",
			Clues: []models.BoardClue{
				{Clue: "The planet known as the red planet", Answer: "mars", Value: 100},
				{Clue: "The hardest natural material", Answer: "diamond", Value: 200},
				{Clue: "The gas plants absorb from the air", Answer: "carbon dioxide", Value: 300},
			},
		},
		{
			Name: "Animals",
			Clues: []models.BoardClue{
				{Clue: "The tallest living animal", Answer: "giraffe", Value: 100},
				{Clue: "The flightless bird that outruns a horse", Answer: "ostrich", Value: 200},
				{Clue: "The mammal that lays eggs", Answer: "platypus", Value: 300},
			},
		},
		{
			Name: "Food",
			Clues: []models.BoardClue{
				{Clue: "The fruit said to keep the doctor away", Answer: "apple", Value: 100},
				{Clue: "The Italian flatbread dish with toppings", Answer: "pizza", Value: 200},
				{Clue: "The Japanese dish of vinegared rice and fish", Answer: "sushi", Value: 300},
			},
		},
		{
			Name: "Music",
			Clues: []models.BoardClue{
				{Clue: "The instrument with 88 keys", Answer: "piano", Value: 100},
				{Clue: "The composer of the Ninth Symphony who lost his hearing", Answer: "beethoven", Value: 200},
				{Clue: "The Austrian city where Mozart was born", Answer: "salzburg", Value: 300},
			},
		},
		{
			Name: "On The Map",
			Clues: []models.BoardClue{
				{Clue: "The longest river in South America", Answer: "amazon", Value: 100},
				{Clue: "The desert covering much of northern Africa", Answer: "sahara", Value: 200},
				{Clue: "The strait separating Europe from Africa", Answer: "gibraltar", Value: 300},
			},
		},
	},
	Surveys: []models.Survey{
		{
			Question: "Name something people do first thing in the morning.",
			Answers: []models.SurveyAnswer{
				{Text: "check phone", Points: 35, Aliases: []string{"look at phone", "phone"}},
				{Text: "coffee", Points: 28, Aliases: []string{"drink coffee", "make coffee"}},
				{Text: "brush teeth", Points: 18},
				{Text: "shower", Points: 12},
				{Text: "snooze alarm", Points: 7, Aliases: []string{"hit snooze"}},
			},
		},
		{
			Question: "Name something you always lose around the house.",
			Answers: []models.SurveyAnswer{
				{Text: "keys", Points: 38},
				{Text: "remote", Points: 25, Aliases: []string{"tv remote", "remote control"}},
				{Text: "phone", Points: 20},
				{Text: "glasses", Points: 10},
				{Text: "socks", Points: 7, Aliases: []string{"sock"}},
			},
		},
		{
			Question: "Name a reason people are late for work.",
			Answers: []models.SurveyAnswer{
				{Text: "traffic", Points: 40},
				{Text: "overslept", Points: 30, Aliases: []string{"slept in", "alarm"}},
				{Text: "kids", Points: 12, Aliases: []string{"children"}},
				{Text: "weather", Points: 10},
				{Text: "lost keys", Points: 8, Aliases: []string{"keys"}},
			},
		},
		{
			Question: "Name something people bring to a picnic.",
			Answers: []models.SurveyAnswer{
				{Text: "sandwiches", Points: 33, Aliases: []string{"sandwich"}},
				{Text: "blanket", Points: 26},
				{Text: "drinks", Points: 19, Aliases: []string{"soda", "lemonade"}},
				{Text: "fruit", Points: 13, Aliases: []string{"watermelon"}},
				{Text: "frisbee", Points: 9},
			},
		},
	},
}
