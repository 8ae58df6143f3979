package generator

// Name parts. A name is one prefix, optionally followed by one suffix.
var (
	namePrefixes = []string{
		"MOON", "DOGE", "PEPE", "SHIB", "FLOKI", "WOJAK", "CHAD", "BASED", "TURBO", "MEME",
		"PUMP", "APE", "FROG", "CAT", "BONK", "WIF", "POPCAT", "GIGA", "NEIRO", "SUNDOG",
	}
	nameSuffixes = []string{
		"INU", "COIN", "TOKEN", "SWAP", "MOON", "PUMP", "AI", "GPT", "TRON", "SUN",
		"2.0", "X", "CLASSIC", "GOLD", "DEGEN",
	}
)
