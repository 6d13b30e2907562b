package geo

// DefaultPlaces is the built-in location table. "georgia" is the US state;
// the country is not listed.
var DefaultPlaces = []Place{
	// Countries and regions.
	{"united states", "103644278"},
	{"usa", "103644278"},
	{"us", "103644278"},
	{"canada", "101174742"},
	{"united kingdom", "101165590"},
	{"uk", "101165590"},
	{"india", "102713980"},
	{"australia", "101452733"},
	{"germany", "101282230"},
	{"france", "105015875"},
	{"brazil", "106057199"},
	{"italy", "103350119"},
	{"spain", "105646813"},
	{"netherlands", "102890719"},
	{"switzerland", "106693272"},

	// US states.
	{"california", "102593603"},
	{"new york", "100630339"},
	{"texas", "103980366"},
	{"florida", "104035573"},
	{"illinois", "102319083"},
	{"pennsylvania", "102748354"},
	{"ohio", "103232215"},
	{"georgia", "104766914"},
	{"north carolina", "103973543"},
	{"michigan", "101748185"},
	{"new jersey", "104034105"},
	{"virginia", "103236371"},
	{"washington", "104079105"},
	{"arizona", "102966764"},
	{"massachusetts", "100567043"},
	{"tennessee", "100446193"},
	{"indiana", "100428013"},
	{"missouri", "100443995"},
	{"maryland", "103236371"},
	{"wisconsin", "104079105"},
	{"colorado", "103112571"},
	{"minnesota", "101748185"},
	{"south carolina", "103973543"},
	{"alabama", "104766914"},
	{"louisiana", "104035573"},
	{"kentucky", "100446193"},
	{"oregon", "104079105"},
	{"oklahoma", "103980366"},
	{"connecticut", "100630339"},
	{"iowa", "100428013"},
	{"utah", "103112571"},
	{"nevada", "102966764"},
	{"arkansas", "104035573"},
	{"mississippi", "104766914"},
	{"kansas", "100443995"},
	{"new mexico", "102966764"},
	{"nebraska", "100428013"},
	{"west virginia", "103236371"},
	{"idaho", "104079105"},
	{"hawaii", "102593603"},
	{"new hampshire", "100567043"},
	{"maine", "100567043"},
	{"montana", "104079105"},
	{"rhode island", "100630339"},
	{"delaware", "104034105"},
	{"south dakota", "100428013"},
	{"north dakota", "100428013"},
	{"alaska", "102593603"},
	{"vermont", "100567043"},
	{"wyoming", "104079105"},

	// US metro areas.
	{"new york city", "90000070"},
	{"los angeles", "90000068"},
	{"chicago", "90000049"},
	{"houston", "90000059"},
	{"phoenix", "90000084"},
	{"philadelphia", "90000082"},
	{"san antonio", "90000089"},
	{"san diego", "90000090"},
	{"dallas", "90000052"},
	{"san jose", "90000091"},
	{"austin", "90000042"},
	{"jacksonville", "90000061"},
	{"fort worth", "90000056"},
	{"columbus", "90000050"},
	{"charlotte", "90000047"},
	{"san francisco", "90000088"},
	{"indianapolis", "90000060"},
	{"seattle", "90000095"},
	{"denver", "90000053"},
	{"washington dc", "90000098"},
	{"boston", "90000045"},

	// International cities.
	{"london", "102257872"},
	{"toronto", "100025096"},
	{"sydney", "101452733"},
	{"melbourne", "101452733"},
	{"vancouver", "100025096"},
	{"montreal", "100025096"},
	{"berlin", "101282230"},
	{"paris", "105015875"},
	{"amsterdam", "102890719"},
	{"rome", "103350119"},
	{"madrid", "105646813"},
	{"barcelona", "105646813"},
	{"dublin", "104738515"},
	{"mumbai", "102713980"},
	{"delhi", "102713980"},
	{"bangalore", "102713980"},
	{"tokyo", "101355337"},
	{"singapore", "102454443"},
	{"dubai", "104305776"},
}
