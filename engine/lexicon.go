package engine

// Lexicons are plain data so tests can assert exact scores for known inputs.
// Each default* function returns a fresh copy; callers own their Config and
// may extend or replace any table without affecting other runs.

var stopwordList = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "these", "those",
	"am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing",
	"a", "an", "the", "and", "but", "if", "or", "because", "as", "until", "while",
	"of", "at", "by", "for", "with", "through", "during", "before", "after",
	"above", "below", "up", "down", "in", "out", "on", "off", "over", "under",
	"again", "further", "then", "once", "here", "there", "when", "where", "why", "how",
	"all", "any", "both", "each", "few", "more", "most", "other", "some", "such",
	"no", "nor", "not", "only", "own", "same", "so", "than", "too", "very",
	"will", "would", "should", "could", "can", "may", "might", "must", "shall",
	"to", "from",
}

func defaultStopwords() map[string]struct{} {
	return toSet(stopwordList)
}

var positiveWords = []string{
	"love", "amazing", "wonderful", "great", "awesome", "fantastic", "perfect",
	"beautiful", "sweet", "cute", "happy", "excited", "joy", "smile", "laugh",
	"fun", "good", "best", "excellent", "brilliant", "yay", "yes", "yeah",
	"cool", "nice",
}

var negativeWords = []string{
	"hate", "terrible", "awful", "bad", "sad", "angry", "upset", "disappointed",
	"frustrated", "annoyed", "worried", "scared", "hurt", "pain", "cry", "sick",
	"tired", "bored", "stupid", "dumb", "nope", "ugh",
}

func defaultSentimentLexicon() map[string]float64 {
	m := make(map[string]float64, len(positiveWords)+len(negativeWords))
	for _, w := range positiveWords {
		m[w] = 1
	}
	for _, w := range negativeWords {
		m[w] = -1
	}
	return m
}

var positiveEmojis = []string{
	"😊", "😄", "😃", "😁", "😆", "😂", "🤣", "😍", "🥰", "😘", "❤", "💕",
	"💖", "💗", "💝", "✨", "🌟", "💫", "🌈", "🎉", "🎊", "👏", "👍", "🙌",
	"🔥", "💯", "😇", "🥺", "😌",
}

var negativeEmojis = []string{
	"😢", "😭", "😔", "😞", "😟", "😕", "🙁", "☹", "😠", "😡", "😤", "😒",
	"😑", "😐", "😶", "💔", "😰", "😨", "😱", "😖", "😣", "😫", "😩",
}

func defaultEmojiSentiment() map[string]float64 {
	m := make(map[string]float64, len(positiveEmojis)+len(negativeEmojis))
	for _, e := range positiveEmojis {
		m[e] = 1
	}
	for _, e := range negativeEmojis {
		m[e] = -1
	}
	return m
}

var affectionWordList = []string{
	"love", "loved", "loving", "heart", "hearts", "romantic", "romance",
	"passion", "passionate", "intimate", "hug", "hugs", "kiss", "kisses",
	"kissing", "tender", "gentle", "warm", "warmth", "comfort", "comforting",
	"sweet", "sweetest", "cute", "cutest", "beautiful", "gorgeous", "darling",
	"dear", "honey", "baby", "babe", "sweetheart", "beloved", "treasure",
	"angel", "amazing", "wonderful", "fantastic", "awesome", "perfect",
	"incredible", "precious", "special", "unique", "miss", "missing", "care",
	"caring", "adore", "cherish", "fond", "affection", "affectionate", "trust",
	"faithful", "loyal", "devoted", "together", "forever", "always", "promise",
	"dream", "dreams", "hope", "wish", "blessed", "grateful", "thankful",
	"appreciate", "bestie", "buddy", "friend", "mate", "pal",
}

func defaultAffectionWords() map[string]struct{} {
	return toSet(affectionWordList)
}

var affectionEmojiList = []string{
	"❤", "💕", "💖", "💗", "💘", "💝", "💞", "💟", "💌", "💋", "😍", "🥰",
	"😘", "🤗", "🤩", "😊", "😌", "🥺", "😇", "💯", "✨", "🌟", "💫", "🌈",
	"🦄", "🌸", "🌺", "🌻", "🌷", "🌹", "🌼", "💐", "🎀", "🎁", "💎", "👑",
	"💍",
}

func defaultAffectionEmojis() map[string]struct{} {
	return toSet(affectionEmojiList)
}

var starterWordList = []string{
	"hey", "hi", "hello", "hii", "hiii", "yo", "yoo", "sup", "wassup",
	"howdy", "greetings", "morning", "gm", "gn", "goodnight", "night",
}

func defaultStarterWords() map[string]struct{} {
	return toSet(starterWordList)
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
