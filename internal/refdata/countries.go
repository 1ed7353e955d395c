package refdata

// Continent codes follow the two-letter convention used by the ISO country to
// continent converters.
const (
	Africa       = "AF"
	Antarctica   = "AN"
	Asia         = "AS"
	Europe       = "EU"
	NorthAmerica = "NA"
	Oceania      = "OC"
	SouthAmerica = "SA"
)

// continentNames maps a continent code to its display name.
var continentNames = map[string]string{
	Africa:       "Africa",
	Antarctica:   "Antarctica",
	Asia:         "Asia",
	Europe:       "Europe",
	NorthAmerica: "North America",
	Oceania:      "Oceania",
	SouthAmerica: "South America",
}

// builtin is the ISO 3166-1 country list in registry order (alpha-3). The order
// is load-bearing: fuzzy resolution breaks score ties by first occurrence.
//
// Entries with an empty Continent are territories the continent converters
// refuse to classify; lookups for them report no continent.
var builtin = []Country{
	{"AW", "Aruba", NorthAmerica, nil},
	{"AF", "Afghanistan", Asia, nil},
	{"AO", "Angola", Africa, nil},
	{"AI", "Anguilla", NorthAmerica, nil},
	{"AX", "Åland Islands", Europe, nil},
	{"AL", "Albania", Europe, nil},
	{"AD", "Andorra", Europe, nil},
	{"AE", "United Arab Emirates", Asia, []string{"UAE"}},
	{"AR", "Argentina", SouthAmerica, nil},
	{"AM", "Armenia", Asia, nil},
	{"AS", "American Samoa", Oceania, nil},
	{"AQ", "Antarctica", "", nil},
	{"TF", "French Southern Territories", "", nil},
	{"AG", "Antigua and Barbuda", NorthAmerica, nil},
	{"AU", "Australia", Oceania, nil},
	{"AT", "Austria", Europe, nil},
	{"AZ", "Azerbaijan", Asia, nil},
	{"BI", "Burundi", Africa, nil},
	{"BE", "Belgium", Europe, nil},
	{"BJ", "Benin", Africa, nil},
	{"BQ", "Bonaire, Sint Eustatius and Saba", NorthAmerica, nil},
	{"BF", "Burkina Faso", Africa, nil},
	{"BD", "Bangladesh", Asia, nil},
	{"BG", "Bulgaria", Europe, nil},
	{"BH", "Bahrain", Asia, nil},
	{"BS", "Bahamas", NorthAmerica, []string{"The Bahamas"}},
	{"BA", "Bosnia and Herzegovina", Europe, nil},
	{"BL", "Saint Barthélemy", NorthAmerica, nil},
	{"BY", "Belarus", Europe, nil},
	{"BZ", "Belize", NorthAmerica, nil},
	{"BM", "Bermuda", NorthAmerica, nil},
	{"BO", "Bolivia, Plurinational State of", SouthAmerica, []string{"Bolivia"}},
	{"BR", "Brazil", SouthAmerica, nil},
	{"BB", "Barbados", NorthAmerica, nil},
	{"BN", "Brunei Darussalam", Asia, []string{"Brunei"}},
	{"BT", "Bhutan", Asia, nil},
	{"BV", "Bouvet Island", Antarctica, nil},
	{"BW", "Botswana", Africa, nil},
	{"CF", "Central African Republic", Africa, nil},
	{"CA", "Canada", NorthAmerica, nil},
	{"CC", "Cocos (Keeling) Islands", Asia, nil},
	{"CH", "Switzerland", Europe, nil},
	{"CL", "Chile", SouthAmerica, nil},
	{"CN", "China", Asia, nil},
	{"CI", "Côte d'Ivoire", Africa, []string{"Ivory Coast"}},
	{"CM", "Cameroon", Africa, nil},
	{"CD", "Congo, The Democratic Republic of the", Africa, []string{"Democratic Republic of the Congo", "DR Congo"}},
	{"CG", "Congo", Africa, []string{"Republic of the Congo"}},
	{"CK", "Cook Islands", Oceania, nil},
	{"CO", "Colombia", SouthAmerica, nil},
	{"KM", "Comoros", Africa, nil},
	{"CV", "Cabo Verde", Africa, []string{"Cape Verde"}},
	{"CR", "Costa Rica", NorthAmerica, nil},
	{"CU", "Cuba", NorthAmerica, nil},
	{"CW", "Curaçao", NorthAmerica, nil},
	{"CX", "Christmas Island", Asia, nil},
	{"KY", "Cayman Islands", NorthAmerica, nil},
	{"CY", "Cyprus", Asia, nil},
	{"CZ", "Czechia", Europe, []string{"Czech Republic"}},
	{"DE", "Germany", Europe, nil},
	{"DJ", "Djibouti", Africa, nil},
	{"DM", "Dominica", NorthAmerica, nil},
	{"DK", "Denmark", Europe, nil},
	{"DO", "Dominican Republic", NorthAmerica, nil},
	{"DZ", "Algeria", Africa, nil},
	{"EC", "Ecuador", SouthAmerica, nil},
	{"EG", "Egypt", Africa, nil},
	{"ER", "Eritrea", Africa, nil},
	{"EH", "Western Sahara", "", nil},
	{"ES", "Spain", Europe, nil},
	{"EE", "Estonia", Europe, nil},
	{"ET", "Ethiopia", Africa, nil},
	{"FI", "Finland", Europe, nil},
	{"FJ", "Fiji", Oceania, nil},
	{"FK", "Falkland Islands (Malvinas)", SouthAmerica, []string{"Falkland Islands"}},
	{"FR", "France", Europe, nil},
	{"FO", "Faroe Islands", Europe, nil},
	{"FM", "Micronesia, Federated States of", Oceania, []string{"Micronesia"}},
	{"GA", "Gabon", Africa, nil},
	{"GB", "United Kingdom", Europe, []string{"UK", "Great Britain", "Britain"}},
	{"GE", "Georgia", Asia, nil},
	{"GG", "Guernsey", Europe, nil},
	{"GH", "Ghana", Africa, nil},
	{"GI", "Gibraltar", Europe, nil},
	{"GN", "Guinea", Africa, nil},
	{"GP", "Guadeloupe", NorthAmerica, nil},
	{"GM", "Gambia", Africa, []string{"The Gambia"}},
	{"GW", "Guinea-Bissau", Africa, nil},
	{"GQ", "Equatorial Guinea", Africa, nil},
	{"GR", "Greece", Europe, nil},
	{"GD", "Grenada", NorthAmerica, nil},
	{"GL", "Greenland", NorthAmerica, nil},
	{"GT", "Guatemala", NorthAmerica, nil},
	{"GF", "French Guiana", SouthAmerica, nil},
	{"GU", "Guam", Oceania, nil},
	{"GY", "Guyana", SouthAmerica, nil},
	{"HK", "Hong Kong", Asia, nil},
	{"HM", "Heard Island and McDonald Islands", Oceania, nil},
	{"HN", "Honduras", NorthAmerica, nil},
	{"HR", "Croatia", Europe, nil},
	{"HT", "Haiti", NorthAmerica, nil},
	{"HU", "Hungary", Europe, nil},
	{"ID", "Indonesia", Asia, nil},
	{"IM", "Isle of Man", Europe, nil},
	{"IN", "India", Asia, nil},
	{"IO", "British Indian Ocean Territory", Asia, nil},
	{"IE", "Ireland", Europe, nil},
	{"IR", "Iran, Islamic Republic of", Asia, []string{"Iran"}},
	{"IQ", "Iraq", Asia, nil},
	{"IS", "Iceland", Europe, nil},
	{"IL", "Israel", Asia, nil},
	{"IT", "Italy", Europe, nil},
	{"JM", "Jamaica", NorthAmerica, nil},
	{"JE", "Jersey", Europe, nil},
	{"JO", "Jordan", Asia, nil},
	{"JP", "Japan", Asia, nil},
	{"KZ", "Kazakhstan", Asia, nil},
	{"KE", "Kenya", Africa, nil},
	{"KG", "Kyrgyzstan", Asia, nil},
	{"KH", "Cambodia", Asia, nil},
	{"KI", "Kiribati", Oceania, nil},
	{"KN", "Saint Kitts and Nevis", NorthAmerica, nil},
	{"KR", "Korea, Republic of", Asia, []string{"South Korea", "Republic of Korea"}},
	{"KW", "Kuwait", Asia, nil},
	{"LA", "Lao People's Democratic Republic", Asia, []string{"Laos"}},
	{"LB", "Lebanon", Asia, nil},
	{"LR", "Liberia", Africa, nil},
	{"LY", "Libya", Africa, nil},
	{"LC", "Saint Lucia", NorthAmerica, nil},
	{"LI", "Liechtenstein", Europe, nil},
	{"LK", "Sri Lanka", Asia, nil},
	{"LS", "Lesotho", Africa, nil},
	{"LT", "Lithuania", Europe, nil},
	{"LU", "Luxembourg", Europe, nil},
	{"LV", "Latvia", Europe, nil},
	{"MO", "Macao", Asia, []string{"Macau"}},
	{"MF", "Saint Martin (French part)", NorthAmerica, nil},
	{"MA", "Morocco", Africa, nil},
	{"MC", "Monaco", Europe, nil},
	{"MD", "Moldova, Republic of", Europe, []string{"Moldova"}},
	{"MG", "Madagascar", Africa, nil},
	{"MV", "Maldives", Asia, nil},
	{"MX", "Mexico", NorthAmerica, nil},
	{"MH", "Marshall Islands", Oceania, nil},
	{"MK", "North Macedonia", Europe, []string{"Macedonia"}},
	{"ML", "Mali", Africa, nil},
	{"MT", "Malta", Europe, nil},
	{"MM", "Myanmar", Asia, []string{"Burma"}},
	{"ME", "Montenegro", Europe, nil},
	{"MN", "Mongolia", Asia, nil},
	{"MP", "Northern Mariana Islands", Oceania, nil},
	{"MZ", "Mozambique", Africa, nil},
	{"MR", "Mauritania", Africa, nil},
	{"MS", "Montserrat", NorthAmerica, nil},
	{"MQ", "Martinique", NorthAmerica, nil},
	{"MU", "Mauritius", Africa, nil},
	{"MW", "Malawi", Africa, nil},
	{"MY", "Malaysia", Asia, nil},
	{"YT", "Mayotte", Africa, nil},
	{"NA", "Namibia", Africa, nil},
	{"NC", "New Caledonia", Oceania, nil},
	{"NE", "Niger", Africa, nil},
	{"NF", "Norfolk Island", Oceania, nil},
	{"NG", "Nigeria", Africa, nil},
	{"NI", "Nicaragua", NorthAmerica, nil},
	{"NU", "Niue", Oceania, nil},
	{"NL", "Netherlands", Europe, []string{"Holland"}},
	{"NO", "Norway", Europe, nil},
	{"NP", "Nepal", Asia, nil},
	{"NR", "Nauru", Oceania, nil},
	{"NZ", "New Zealand", Oceania, nil},
	{"OM", "Oman", Asia, nil},
	{"PK", "Pakistan", Asia, nil},
	{"PA", "Panama", NorthAmerica, nil},
	{"PN", "Pitcairn", "", nil},
	{"PE", "Peru", SouthAmerica, nil},
	{"PH", "Philippines", Asia, nil},
	{"PW", "Palau", Oceania, nil},
	{"PG", "Papua New Guinea", Oceania, nil},
	{"PL", "Poland", Europe, nil},
	{"PR", "Puerto Rico", NorthAmerica, nil},
	{"KP", "Korea, Democratic People's Republic of", Asia, []string{"North Korea"}},
	{"PT", "Portugal", Europe, nil},
	{"PY", "Paraguay", SouthAmerica, nil},
	{"PS", "Palestine, State of", Asia, []string{"Palestine"}},
	{"PF", "French Polynesia", Oceania, nil},
	{"QA", "Qatar", Asia, nil},
	{"RE", "Réunion", Africa, nil},
	{"RO", "Romania", Europe, nil},
	{"RU", "Russian Federation", Europe, []string{"Russia"}},
	{"RW", "Rwanda", Africa, nil},
	{"SA", "Saudi Arabia", Asia, nil},
	{"SD", "Sudan", Africa, nil},
	{"SN", "Senegal", Africa, nil},
	{"SG", "Singapore", Asia, nil},
	{"GS", "South Georgia and the South Sandwich Islands", Antarctica, nil},
	{"SH", "Saint Helena, Ascension and Tristan da Cunha", Africa, []string{"Saint Helena"}},
	{"SJ", "Svalbard and Jan Mayen", Europe, nil},
	{"SB", "Solomon Islands", Oceania, nil},
	{"SL", "Sierra Leone", Africa, nil},
	{"SV", "El Salvador", NorthAmerica, nil},
	{"SM", "San Marino", Europe, nil},
	{"SO", "Somalia", Africa, nil},
	{"PM", "Saint Pierre and Miquelon", NorthAmerica, nil},
	{"RS", "Serbia", Europe, nil},
	{"SS", "South Sudan", Africa, nil},
	{"ST", "Sao Tome and Principe", Africa, nil},
	{"SR", "Suriname", SouthAmerica, nil},
	{"SK", "Slovakia", Europe, nil},
	{"SI", "Slovenia", Europe, nil},
	{"SE", "Sweden", Europe, nil},
	{"SZ", "Eswatini", Africa, []string{"Swaziland"}},
	{"SX", "Sint Maarten (Dutch part)", "", nil},
	{"SC", "Seychelles", Africa, nil},
	{"SY", "Syrian Arab Republic", Asia, []string{"Syria"}},
	{"TC", "Turks and Caicos Islands", NorthAmerica, nil},
	{"TD", "Chad", Africa, nil},
	{"TG", "Togo", Africa, nil},
	{"TH", "Thailand", Asia, nil},
	{"TJ", "Tajikistan", Asia, nil},
	{"TK", "Tokelau", Oceania, nil},
	{"TM", "Turkmenistan", Asia, nil},
	{"TL", "Timor-Leste", "", []string{"East Timor"}},
	{"TO", "Tonga", Oceania, nil},
	{"TT", "Trinidad and Tobago", NorthAmerica, nil},
	{"TN", "Tunisia", Africa, nil},
	{"TR", "Türkiye", Asia, []string{"Turkey"}},
	{"TV", "Tuvalu", Oceania, nil},
	{"TW", "Taiwan, Province of China", Asia, []string{"Taiwan"}},
	{"TZ", "Tanzania, United Republic of", Africa, []string{"Tanzania"}},
	{"UG", "Uganda", Africa, nil},
	{"UA", "Ukraine", Europe, nil},
	{"UM", "United States Minor Outlying Islands", "", nil},
	{"UY", "Uruguay", SouthAmerica, nil},
	{"US", "United States", NorthAmerica, []string{"USA", "United States of America"}},
	{"UZ", "Uzbekistan", Asia, nil},
	{"VA", "Holy See (Vatican City State)", "", []string{"Vatican"}},
	{"VC", "Saint Vincent and the Grenadines", NorthAmerica, nil},
	{"VE", "Venezuela, Bolivarian Republic of", SouthAmerica, []string{"Venezuela"}},
	{"VG", "Virgin Islands, British", NorthAmerica, nil},
	{"VI", "Virgin Islands, U.S.", NorthAmerica, nil},
	{"VN", "Viet Nam", Asia, []string{"Vietnam"}},
	{"VU", "Vanuatu", Oceania, nil},
	{"WF", "Wallis and Futuna", Oceania, nil},
	{"WS", "Samoa", Oceania, nil},
	{"YE", "Yemen", Asia, nil},
	{"ZA", "South Africa", Africa, nil},
	{"ZM", "Zambia", Africa, nil},
	{"ZW", "Zimbabwe", Africa, nil},
}
