package hashtag

// fallbackHashtags is the fixed dating-themed list served when both the
// template path and the generation path are unavailable. Selection must
// never return an empty list.
var fallbackHashtags = []string{
	"#dating", "#love", "#single", "#relationship", "#datenight", "#romance", "#flirt",
	"#crush", "#match", "#attraction", "#chemistry", "#lovequotes", "#heart",
	"#singlelife", "#lookingforlove", "#datinglife", "#romanticvibes", "#connection",
	"#soulmate", "#meetme", "#dateready", "#lovewins", "#relationshipgoals", "#datingtips",
	"#singles", "#meetup", "#loveisintheair", "#perfectmatch", "#datingapp", "#loveislove",
	"#romanticmood", "#datingadvice", "#lovethoughts", "#relationshipstatus", "#datingfun",
	"#lovelife", "#romanticdate", "#datingworld", "#lovematch", "#relationshipvibes",
}

// Fallback returns up to count tags from the fixed fallback list. A
// non-positive count returns the whole list.
func Fallback(count int) []string {
	if count <= 0 || count > len(fallbackHashtags) {
		count = len(fallbackHashtags)
	}
	tags := make([]string, count)
	copy(tags, fallbackHashtags[:count])
	return tags
}
