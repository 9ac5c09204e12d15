package generator

// City is a freight origin or destination with WGS-84 coordinates.
type City struct {
	Name      string
	Country   string
	Continent string
	Lat       float64
	Lon       float64
}

// cities is the pool of origins and destinations. Major freight hubs
// weighted toward port and airport cities across five continents.
var cities = []City{
	{Name: "Hamburg", Country: "DE", Continent: "EU", Lat: 53.5511, Lon: 9.9937},
	{Name: "Rotterdam", Country: "NL", Continent: "EU", Lat: 51.9244, Lon: 4.4777},
	{Name: "Antwerp", Country: "BE", Continent: "EU", Lat: 51.2194, Lon: 4.4025},
	{Name: "London", Country: "GB", Continent: "EU", Lat: 51.5074, Lon: -0.1278},
	{Name: "Paris", Country: "FR", Continent: "EU", Lat: 48.8566, Lon: 2.3522},
	{Name: "Madrid", Country: "ES", Continent: "EU", Lat: 40.4168, Lon: -3.7038},
	{Name: "Milan", Country: "IT", Continent: "EU", Lat: 45.4642, Lon: 9.19},
	{Name: "Warsaw", Country: "PL", Continent: "EU", Lat: 52.2297, Lon: 21.0122},
	{Name: "Istanbul", Country: "TR", Continent: "EU", Lat: 41.0082, Lon: 28.9784},
	{Name: "New York", Country: "US", Continent: "NA", Lat: 40.7128, Lon: -74.006},
	{Name: "Los Angeles", Country: "US", Continent: "NA", Lat: 34.0522, Lon: -118.2437},
	{Name: "Chicago", Country: "US", Continent: "NA", Lat: 41.8781, Lon: -87.6298},
	{Name: "Houston", Country: "US", Continent: "NA", Lat: 29.7604, Lon: -95.3698},
	{Name: "Memphis", Country: "US", Continent: "NA", Lat: 35.1495, Lon: -90.049},
	{Name: "Toronto", Country: "CA", Continent: "NA", Lat: 43.6532, Lon: -79.3832},
	{Name: "Mexico City", Country: "MX", Continent: "NA", Lat: 19.4326, Lon: -99.1332},
	{Name: "Shanghai", Country: "CN", Continent: "AS", Lat: 31.2304, Lon: 121.4737},
	{Name: "Shenzhen", Country: "CN", Continent: "AS", Lat: 22.5431, Lon: 114.0579},
	{Name: "Singapore", Country: "SG", Continent: "AS", Lat: 1.3521, Lon: 103.8198},
	{Name: "Hong Kong", Country: "HK", Continent: "AS", Lat: 22.3193, Lon: 114.1694},
	{Name: "Tokyo", Country: "JP", Continent: "AS", Lat: 35.6762, Lon: 139.6503},
	{Name: "Busan", Country: "KR", Continent: "AS", Lat: 35.1796, Lon: 129.0756},
	{Name: "Mumbai", Country: "IN", Continent: "AS", Lat: 19.076, Lon: 72.8777},
	{Name: "Dubai", Country: "AE", Continent: "AS", Lat: 25.2048, Lon: 55.2708},
	{Name: "Sydney", Country: "AU", Continent: "OC", Lat: -33.8688, Lon: 151.2093},
	{Name: "Melbourne", Country: "AU", Continent: "OC", Lat: -37.8136, Lon: 144.9631},
	{Name: "Sao Paulo", Country: "BR", Continent: "SA", Lat: -23.5505, Lon: -46.6333},
	{Name: "Santos", Country: "BR", Continent: "SA", Lat: -23.9608, Lon: -46.3336},
	{Name: "Buenos Aires", Country: "AR", Continent: "SA", Lat: -34.6037, Lon: -58.3816},
	{Name: "Johannesburg", Country: "ZA", Continent: "AF", Lat: -26.2041, Lon: 28.0473},
	{Name: "Lagos", Country: "NG", Continent: "AF", Lat: 6.5244, Lon: 3.3792},
	{Name: "Cairo", Country: "EG", Continent: "AF", Lat: 30.0444, Lon: 31.2357},
}

var carriers = []string{
	"Nordwind Logistics",
	"BlueAnchor Shipping",
	"TransGlobal Freight",
	"Meridian Cargo",
	"SwiftParcel Express",
	"Atlas Haulage",
	"PacificBridge Lines",
	"CargoLink International",
}

// PackageType defines a package category with its plausible weight range in kg.
type PackageType struct {
	Name        string
	MinWeightKG float64
	MaxWeightKG float64
}

var packageTypes = []PackageType{
	{Name: "envelope", MinWeightKG: 0.1, MaxWeightKG: 2},
	{Name: "parcel", MinWeightKG: 1, MaxWeightKG: 30},
	{Name: "crate", MinWeightKG: 20, MaxWeightKG: 200},
	{Name: "pallet", MinWeightKG: 50, MaxWeightKG: 800},
	{Name: "container", MinWeightKG: 2000, MaxWeightKG: 25000},
}
