// internal/translate/fallback.go
package translate

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	tokenRegex          = regexp.MustCompile(`[\p{L}\p{N}_']+|[.,!?;:()]`)
	punctRegex          = regexp.MustCompile(`^[.,!?;:()]$`)
	spaceBeforePunct    = regexp.MustCompile(`\s+([.,!?;:])`)
	missingSpaceAfter   = regexp.MustCompile(`([.,!?;:])([а-яА-Яa-zA-Z])`)
	repeatedSpace       = regexp.MustCompile(`\s{2,}`)
	leadingConjunction  = regexp.MustCompile(`^\s*[Ии]\s+`)
	duplicatedAuxiliary = regexp.MustCompile(`\sявляется\s+был`)
	duplicatedWords     = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`\sв\s+в\s`), " в "},
		{regexp.MustCompile(`\sна\s+на\s`), " на "},
		{regexp.MustCompile(`\sего его\s`), " его "},
		{regexp.MustCompile(`\sих их\s`), " их "},
	}
)

// Fallback translates English text word by word with the built-in table.
// Unknown words are kept as they are, articles are dropped and the case of
// capitalised or upper-case words is carried over.
func Fallback(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	tokens := tokenRegex.FindAllString(text, -1)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if punctRegex.MatchString(tok) {
			out = append(out, tok)
			continue
		}

		translation, ok := fallbackTable[strings.ToLower(tok)]
		if !ok {
			out = append(out, tok)
			continue
		}
		if translation == "" {
			continue
		}
		switch {
		case isTitle(tok):
			translation = capitalize(translation)
		case isUpper(tok):
			translation = strings.ToUpper(translation)
		}
		out = append(out, translation)
	}

	result := strings.Join(out, " ")
	result = spaceBeforePunct.ReplaceAllString(result, "$1")
	result = missingSpaceAfter.ReplaceAllString(result, "$1 $2")
	result = repeatedSpace.ReplaceAllString(result, " ")
	result = leadingConjunction.ReplaceAllString(result, "")
	result = duplicatedAuxiliary.ReplaceAllString(result, " был")
	for _, d := range duplicatedWords {
		result = d.re.ReplaceAllString(result, d.repl)
	}
	return result
}

// isTitle reports whether every run of letters starts with an upper-case
// letter followed only by lower-case ones ("Jim", "O'Brien", "I").
func isTitle(word string) bool {
	cased, prevCased := false, false
	for _, r := range word {
		switch {
		case unicode.IsUpper(r):
			if prevCased {
				return false
			}
			cased, prevCased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			cased, prevCased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

func isUpper(word string) bool {
	cased := false
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

var fallbackTable = map[string]string{
	// function words
	"the": "", "a": "", "an": "", "is": "является", "are": "являются", "was": "был", "were": "были",
	"am": "являюсь", "be": "быть", "been": "был", "will": "будет", "would": "бы", "should": "следует",
	"can": "может", "could": "мог бы", "may": "может", "might": "мог бы", "must": "должен",
	"have": "иметь", "has": "имеет", "had": "имел", "do": "делать", "does": "делает", "did": "делал",
	"in": "в", "on": "на", "at": "на", "by": "у", "with": "с", "from": "из", "of": "из", "to": "к",
	"for": "для", "about": "о", "against": "против", "between": "между", "into": "в", "through": "через",
	"during": "во время", "before": "перед", "after": "после", "above": "над", "below": "под",
	"up": "вверх", "down": "вниз", "out": "вне", "off": "от", "over": "над", "under": "под", "again": "снова",
	"further": "далее", "then": "затем", "once": "однажды", "here": "здесь", "there": "там", "when": "когда",
	"where": "где", "why": "почему", "how": "как", "all": "все", "any": "любой", "both": "оба", "each": "каждый",
	"few": "несколько", "more": "больше", "most": "большинство", "other": "другой", "some": "некоторые",
	"such": "такой", "no": "нет", "nor": "ни", "not": "не", "only": "только", "own": "собственный",
	"so": "так", "than": "чем", "too": "тоже", "very": "очень", "this": "это",
	"that": "то", "i": "я", "me": "меня", "my": "мой", "myself": "себя", "we": "мы", "our": "наш", "ours": "наш",
	"ourselves": "себя", "you": "ты", "your": "твой", "yours": "твой", "yourself": "себя", "yourselves": "себя",
	"he": "он", "him": "его", "his": "его", "himself": "себя", "she": "она", "her": "её", "hers": "её",
	"herself": "себя", "it": "это", "its": "его", "itself": "себя", "they": "они", "them": "их", "their": "их",
	"theirs": "их", "themselves": "себя", "what": "что", "which": "который", "who": "кто", "whom": "кого",
	"whose": "чей", "and": "и", "but": "но", "if": "если", "or": "или", "because": "потому что",
	"as": "как", "until": "до", "while": "пока", "said": "сказал", "one": "один", "two": "два", "three": "три",

	// Treasure Island characters
	"jim": "Джим", "hawkins": "Хокинс", "trelawney": "Трелони", "squire": "сквайр",
	"doctor": "доктор", "livesey": "Ливси", "smollett": "Смоллетт", "captain": "капитан",
	"flint": "Флинт", "john": "Джон", "long": "Долговязый", "ben": "Бен",
	"gunn": "Ганн", "black": "Чёрный", "dog": "Пёс", "blind": "слепой", "pew": "Пью",
	"israel": "Израэль", "hands": "Хендс", "billy": "Билли", "bones": "Бонс", "george": "Джордж",
	"merry": "Мерри", "tom": "Том", "morgan": "Морган", "dirk": "Дёрк", "joyce": "Джойс",
	"o'brien": "О'Брайен", "redruth": "Редрут", "blandly": "Блендли", "arrow": "Эрроу",

	// sea and the book
	"sea": "море", "sailor": "моряк", "ship": "корабль", "boat": "лодка", "deck": "палуба",
	"mast": "мачта", "sail": "парус", "cabin": "каюта", "mate": "помощник", "crew": "команда",
	"pirate": "пират", "treasure": "сокровище", "map": "карта", "island": "остров", "beach": "пляж",
	"shore": "берег", "coast": "побережье", "water": "вода", "wave": "волна", "tide": "прилив",
	"port": "порт", "harbor": "гавань", "inn": "таверна", "rum": "ром", "chest": "сундук",
	"gold": "золото", "silver": "серебро", "coin": "монета", "cutlass": "абордажная сабля",
	"sword": "меч", "pistol": "пистолет", "gun": "ружье", "musket": "мушкет", "shot": "выстрел",
	"powder": "порох", "adventure": "приключение", "stockade": "частокол", "parrot": "попугай",
	"schooner": "шхуна", "rigging": "такелаж", "mutiny": "мятеж",
	"anchor": "якорь", "voyage": "путешествие", "course": "курс",
	"wheel": "штурвал", "journal": "журнал", "log": "журнал", "buccaneers": "буканьеры",
	"hispaniola": "Испаньола", "maroon": "высадить на необитаемый остров",
	"skeleton": "скелет", "compass": "компас", "cove": "бухта",
	"spyglass": "подзорная труба", "plunder": "добыча", "booty": "награбленное",

	// common words
	"good": "хороший", "bad": "плохой", "man": "человек", "woman": "женщина", "boy": "мальчик",
	"girl": "девочка", "child": "ребенок", "children": "дети", "friend": "друг", "enemy": "враг",
	"time": "время", "year": "год", "day": "день", "night": "ночь", "life": "жизнь", "world": "мир",
	"way": "путь", "thing": "вещь", "part": "часть", "place": "место", "case": "случай", "group": "группа",
	"company": "компания", "number": "число", "point": "точка", "government": "правительство",
	"country": "страна", "city": "город", "house": "дом", "room": "комната", "area": "область",
	"issue": "проблема", "side": "сторона", "business": "бизнес", "school": "школа", "family": "семья",
	"word": "слово", "eye": "глаз", "head": "голова", "hand": "рука", "foot": "нога", "face": "лицо",
	"body": "тело", "heart": "сердце", "mind": "разум", "look": "смотреть", "see": "видеть", "find": "находить",
	"tell": "рассказывать", "ask": "спрашивать", "give": "давать", "take": "брать", "come": "приходить",
	"go": "идти", "get": "получать", "make": "делать", "know": "знать", "think": "думать", "want": "хотеть",
	"need": "нуждаться", "seem": "казаться", "feel": "чувствовать", "try": "пытаться", "leave": "уходить",
	"call": "звонить", "work": "работать", "move": "двигаться", "live": "жить", "believe": "верить",
	"hold": "держать", "bring": "приносить", "happen": "случаться", "write": "писать", "read": "читать",
	"sit": "сидеть", "stand": "стоять", "hear": "слышать", "walk": "ходить", "run": "бежать",
	"like": "нравиться", "love": "любить", "hate": "ненавидеть", "say": "говорить", "talk": "разговаривать",
	"eat": "есть", "drink": "пить", "sleep": "спать", "play": "играть", "small": "маленький",
	"large": "большой", "old": "старый", "young": "молодой", "new": "новый", "right": "правильный",
	"wrong": "неправильный", "high": "высокий", "low": "низкий", "early": "ранний", "late": "поздний",
	"yes": "да", "maybe": "возможно", "perhaps": "возможно", "always": "всегда", "never": "никогда",
	"sometimes": "иногда", "often": "часто", "really": "действительно", "actually": "на самом деле",
	"well": "хорошо", "great": "отлично", "pretty": "довольно", "little": "мало", "lot": "много",
	"first": "первый", "last": "последний", "next": "следующий", "same": "такой же",
	"cat": "кот",
}
