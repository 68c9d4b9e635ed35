package country

// Entry is one row of the country table.
type Entry struct {
	Code        string // ISO 3166-1 alpha-2
	Name        string // German country name
	Nationality string // German nationality adjective
}

// entries is ordered by how often the countries occur on enrollment forms;
// substring resolution returns the first hit, so the order matters.
var entries = []Entry{
	{"DE", "Deutschland", "deutsch"},
	{"TR", "Türkei", "türkisch"},
	{"PL", "Polen", "polnisch"},
	{"RU", "Russische Föderation", "russisch"},
	{"UA", "Ukraine", "ukrainisch"},
	{"SY", "Syrien", "syrisch"},
	{"RO", "Rumänien", "rumänisch"},
	{"IT", "Italien", "italienisch"},
	{"GR", "Griechenland", "griechisch"},
	{"HR", "Kroatien", "kroatisch"},
	{"BG", "Bulgarien", "bulgarisch"},
	{"AT", "Österreich", "österreichisch"},
	{"CH", "Schweiz", "schweizerisch"},
	{"FR", "Frankreich", "französisch"},
	{"NL", "Niederlande", "niederländisch"},
	{"BE", "Belgien", "belgisch"},
	{"LU", "Luxemburg", "luxemburgisch"},
	{"DK", "Dänemark", "dänisch"},
	{"SE", "Schweden", "schwedisch"},
	{"NO", "Norwegen", "norwegisch"},
	{"FI", "Finnland", "finnisch"},
	{"IS", "Island", "isländisch"},
	{"IE", "Irland", "irisch"},
	{"GB", "Vereinigtes Königreich", "britisch"},
	{"ES", "Spanien", "spanisch"},
	{"PT", "Portugal", "portugiesisch"},
	{"CZ", "Tschechien", "tschechisch"},
	{"SK", "Slowakei", "slowakisch"},
	{"HU", "Ungarn", "ungarisch"},
	{"SI", "Slowenien", "slowenisch"},
	{"RS", "Serbien", "serbisch"},
	{"BA", "Bosnien und Herzegowina", "bosnisch-herzegowinisch"},
	{"MK", "Nordmazedonien", "nordmazedonisch"},
	{"AL", "Albanien", "albanisch"},
	{"XK", "Kosovo", "kosovarisch"},
	{"ME", "Montenegro", "montenegrinisch"},
	{"MD", "Moldau", "moldauisch"},
	{"BY", "Belarus", "belarussisch"},
	{"LT", "Litauen", "litauisch"},
	{"LV", "Lettland", "lettisch"},
	{"EE", "Estland", "estnisch"},
	{"CY", "Zypern", "zyprisch"},
	{"MT", "Malta", "maltesisch"},
	{"GE", "Georgien", "georgisch"},
	{"AM", "Armenien", "armenisch"},
	{"AZ", "Aserbaidschan", "aserbaidschanisch"},
	{"KZ", "Kasachstan", "kasachisch"},
	{"AF", "Afghanistan", "afghanisch"},
	{"IQ", "Irak", "irakisch"},
	{"IR", "Iran", "iranisch"},
	{"LB", "Libanon", "libanesisch"},
	{"JO", "Jordanien", "jordanisch"},
	{"IL", "Israel", "israelisch"},
	{"EG", "Ägypten", "ägyptisch"},
	{"MA", "Marokko", "marokkanisch"},
	{"DZ", "Algerien", "algerisch"},
	{"TN", "Tunesien", "tunesisch"},
	{"ER", "Eritrea", "eritreisch"},
	{"ET", "Äthiopien", "äthiopisch"},
	{"SO", "Somalia", "somalisch"},
	{"NG", "Nigeria", "nigerianisch"},
	{"GH", "Ghana", "ghanaisch"},
	{"KE", "Kenia", "kenianisch"},
	{"IN", "Indien", "indisch"},
	{"PK", "Pakistan", "pakistanisch"},
	{"BD", "Bangladesch", "bangladeschisch"},
	{"LK", "Sri Lanka", "sri-lankisch"},
	{"VN", "Vietnam", "vietnamesisch"},
	{"TH", "Thailand", "thailändisch"},
	{"PH", "Philippinen", "philippinisch"},
	{"CN", "China", "chinesisch"},
	{"JP", "Japan", "japanisch"},
	{"KR", "Korea, Republik", "südkoreanisch"},
	{"US", "Vereinigte Staaten", "amerikanisch"},
	{"CA", "Kanada", "kanadisch"},
	{"BR", "Brasilien", "brasilianisch"},
	{"MX", "Mexiko", "mexikanisch"},
	{"AR", "Argentinien", "argentinisch"},
	{"CO", "Kolumbien", "kolumbianisch"},
	{"AU", "Australien", "australisch"},
}
