package domain

// multiPartTLDs are two-label public suffixes tested jointly against the
// last two labels of a host. Not exhaustive; covers the ccTLD second-level
// registrations most common in B2B lead lists.
var multiPartTLDs = map[string]struct{}{
	"co.uk": {}, "org.uk": {}, "me.uk": {}, "ltd.uk": {}, "plc.uk": {},
	"ac.uk": {}, "gov.uk": {}, "net.uk": {}, "sch.uk": {},
	"com.au": {}, "net.au": {}, "org.au": {}, "edu.au": {}, "gov.au": {}, "id.au": {},
	"co.nz": {}, "net.nz": {}, "org.nz": {}, "govt.nz": {}, "ac.nz": {},
	"co.za": {}, "org.za": {}, "net.za": {}, "gov.za": {},
	"com.br": {}, "net.br": {}, "org.br": {}, "gov.br": {},
	"com.mx": {}, "org.mx": {}, "gob.mx": {},
	"com.ar": {}, "com.co": {}, "com.pe": {}, "com.ve": {}, "com.uy": {},
	"co.in": {}, "net.in": {}, "org.in": {}, "gen.in": {}, "firm.in": {}, "ind.in": {},
	"co.jp": {}, "ne.jp": {}, "or.jp": {}, "ac.jp": {}, "go.jp": {},
	"co.kr": {}, "or.kr": {}, "ne.kr": {},
	"com.cn": {}, "net.cn": {}, "org.cn": {}, "gov.cn": {},
	"com.hk": {}, "org.hk": {}, "net.hk": {},
	"com.tw": {}, "org.tw": {}, "net.tw": {},
	"com.sg": {}, "org.sg": {}, "net.sg": {}, "edu.sg": {},
	"com.my": {}, "org.my": {}, "net.my": {},
	"co.id": {}, "or.id": {}, "web.id": {},
	"com.ph": {}, "org.ph": {}, "net.ph": {},
	"com.vn": {}, "net.vn": {}, "org.vn": {},
	"co.th": {}, "or.th": {}, "in.th": {},
	"com.tr": {}, "org.tr": {}, "net.tr": {},
	"com.sa": {}, "com.eg": {}, "com.ng": {}, "co.ke": {},
	"com.pl": {}, "net.pl": {}, "org.pl": {},
	"com.ru": {}, "com.ua": {}, "in.ua": {},
	"com.gr": {}, "com.pt": {}, "com.es": {},
	"co.il": {}, "org.il": {}, "net.il": {}, "ac.il": {},
	"com.pk": {}, "com.bd": {}, "com.np": {},
}

// singleTLDs is the allow-list of known one-label TLDs: legacy gTLDs,
// common ccTLDs, and the new gTLDs seen most often in company URLs.
// Heuristic, not authoritative; unlisted 2-10 letter labels still pass the
// lenient fallback in Validate.
var singleTLDs = map[string]struct{}{
	// legacy gTLDs
	"com": {}, "org": {}, "net": {}, "edu": {}, "gov": {}, "mil": {}, "int": {},
	"info": {}, "biz": {}, "name": {}, "pro": {}, "mobi": {}, "aero": {},
	"asia": {}, "cat": {}, "coop": {}, "jobs": {}, "museum": {}, "tel": {},
	"travel": {}, "xxx": {},
	// common ccTLDs
	"ac": {}, "ad": {}, "ae": {}, "af": {}, "ag": {}, "ai": {}, "al": {},
	"am": {}, "ar": {}, "at": {}, "au": {}, "az": {}, "ba": {}, "bd": {},
	"be": {}, "bg": {}, "bh": {}, "bm": {}, "bo": {}, "br": {}, "bs": {},
	"bw": {}, "by": {}, "bz": {}, "ca": {}, "cc": {}, "cd": {}, "ch": {},
	"ci": {}, "cl": {}, "cm": {}, "cn": {}, "co": {}, "cr": {}, "cu": {},
	"cv": {}, "cy": {}, "cz": {}, "de": {}, "dk": {}, "do": {}, "dz": {},
	"ec": {}, "ee": {}, "eg": {}, "es": {}, "et": {}, "eu": {}, "fi": {},
	"fj": {}, "fm": {}, "fo": {}, "fr": {}, "ga": {}, "ge": {}, "gg": {},
	"gh": {}, "gi": {}, "gl": {}, "gm": {}, "gr": {}, "gt": {}, "gy": {},
	"hk": {}, "hn": {}, "hr": {}, "ht": {}, "hu": {}, "id": {}, "ie": {},
	"il": {}, "im": {}, "in": {}, "io": {}, "iq": {}, "ir": {}, "is": {},
	"it": {}, "je": {}, "jm": {}, "jo": {}, "jp": {}, "ke": {}, "kg": {},
	"kh": {}, "kr": {}, "kw": {}, "ky": {}, "kz": {}, "la": {}, "lb": {},
	"li": {}, "lk": {}, "lt": {}, "lu": {}, "lv": {}, "ly": {}, "ma": {},
	"mc": {}, "md": {}, "me": {}, "mg": {}, "mk": {}, "ml": {}, "mm": {},
	"mn": {}, "mo": {}, "mt": {}, "mu": {}, "mv": {}, "mx": {}, "my": {},
	"mz": {}, "na": {}, "ng": {}, "ni": {}, "nl": {}, "no": {}, "np": {},
	"nu": {}, "nz": {}, "om": {}, "pa": {}, "pe": {}, "ph": {}, "pk": {},
	"pl": {}, "pr": {}, "ps": {}, "pt": {}, "py": {}, "qa": {}, "re": {},
	"ro": {}, "rs": {}, "ru": {}, "rw": {}, "sa": {}, "sb": {}, "sc": {},
	"sd": {}, "se": {}, "sg": {}, "si": {}, "sk": {}, "sl": {}, "sm": {},
	"sn": {}, "so": {}, "sr": {}, "sv": {}, "sy": {}, "sz": {}, "tc": {},
	"td": {}, "tg": {}, "th": {}, "tj": {}, "tk": {}, "tl": {}, "tm": {},
	"tn": {}, "to": {}, "tr": {}, "tt": {}, "tv": {}, "tw": {}, "tz": {},
	"ua": {}, "ug": {}, "uk": {}, "us": {}, "uy": {}, "uz": {}, "vc": {},
	"ve": {}, "vg": {}, "vn": {}, "vu": {}, "ws": {}, "ye": {}, "za": {},
	"zm": {}, "zw": {},
	// new gTLDs common in company URLs
	"app": {}, "dev": {}, "tech": {}, "cloud": {}, "digital": {},
	"online": {}, "site": {}, "store": {}, "shop": {}, "agency": {},
	"studio": {}, "design": {}, "media": {}, "group": {}, "global": {},
	"solutions": {}, "services": {}, "consulting": {}, "ventures": {},
	"capital": {}, "partners": {}, "finance": {}, "legal": {}, "health": {},
	"care": {}, "clinic": {}, "energy": {}, "build": {}, "construction": {},
	"realty": {}, "properties": {}, "software": {}, "systems": {},
	"network": {}, "hosting": {}, "email": {}, "marketing": {}, "expert": {},
	"academy": {}, "school": {}, "institute": {}, "foundation": {},
	"church": {}, "club": {}, "team": {}, "works": {}, "world": {},
	"zone": {}, "life": {}, "live": {}, "today": {}, "news": {}, "blog": {},
	"wiki": {}, "guide": {}, "tips": {}, "tools": {}, "fund": {}, "bank": {},
	"insure": {}, "tax": {}, "law": {},
}
