package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// placeResult mirrors the /api/places/top result shape
type placeResult struct {
	YelpID      string  `json:"yelp_id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Score       float64 `json:"score"`
	Price       string  `json:"price"`
	DistanceM   int     `json:"distance_m"`
	Address     string  `json:"address"`
	URL         string  `json:"url"`
}

type placesResponse struct {
	Term     string `json:"term"`
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	TotalResults int           `json:"total_results"`
	Results      []placeResult `json:"results"`
	Attribution  string        `json:"attribution"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

var serverURL = flag.String("server", "http://localhost:8080", "Locus server base URL")

func main() {
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}
	reader := bufio.NewReader(os.Stdin)

	printHeader()

	for {
		fmt.Println("\n" + strings.Repeat("=", 70))
		fmt.Println("MENU:")
		fmt.Println("  1. New Search")
		fmt.Println("  2. Show Examples")
		fmt.Println("  3. Quit")
		fmt.Println(strings.Repeat("=", 70))

		choice := prompt(reader, "\nSelect option (1-3)", "")
		switch choice {
		case "1":
			searchPlaces(client, reader)
		case "2":
			showExamples()
		case "3":
			fmt.Println("\nGoodbye!")
			return
		default:
			fmt.Println("Invalid option. Please choose 1, 2, or 3.")
		}
	}
}

func printHeader() {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("LOCUS - CREDIBILITY-RANKED PLACE SEARCH")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("Find top-rated places near you with credibility-adjusted ranking")
}

// prompt reads a trimmed line, returning def when the input is empty
func prompt(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func searchPlaces(client *http.Client, reader *bufio.Reader) {
	fmt.Println("\nEnter your search parameters:")

	term := prompt(reader, "What are you looking for? (e.g., pizza, sushi, coffee)", "shawarma")
	if term == "" {
		fmt.Println("Search term is required")
		return
	}

	fmt.Println("\nLocation:")
	lat := prompt(reader, "  Latitude", "45.4215")
	lng := prompt(reader, "  Longitude", "-75.6972")

	fmt.Println("\nFilters (press Enter to skip):")
	radius := prompt(reader, "  Radius in meters", "5000")
	limit := prompt(reader, "  Max results", "10")
	openNow := prompt(reader, "  Open now only? (y/n)", "n")
	price := prompt(reader, "  Price levels (1,2,3,4)", "")

	query := url.Values{}
	query.Set("term", term)
	query.Set("lat", lat)
	query.Set("lng", lng)
	if radius != "" {
		query.Set("radius_m", radius)
	}
	if limit != "" {
		query.Set("limit", limit)
	}
	switch strings.ToLower(openNow) {
	case "y", "yes", "true", "1":
		query.Set("open_now", "true")
	}
	if price != "" {
		query.Set("price", price)
	}

	fmt.Println("\nSearching...")
	fmt.Println(strings.Repeat("-", 70))

	reqURL := strings.TrimSuffix(*serverURL, "/") + "/api/places/top?" + query.Encode()
	resp, err := client.Get(reqURL)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Failed to read response: %v\n", err)
		return
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			fmt.Printf("Error %d: %s\n", resp.StatusCode, errResp.Error)
		} else {
			fmt.Printf("Error %d: %s\n", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return
	}

	var data placesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		fmt.Printf("Failed to decode response: %v\n", err)
		return
	}

	fmt.Printf("\nFound %d results for %q\n", data.TotalResults, data.Term)
	fmt.Printf("Near (%g, %g)\n", data.Location.Latitude, data.Location.Longitude)
	fmt.Println(strings.Repeat("=", 70))

	for i, place := range data.Results {
		fmt.Printf("\n%d. %s\n", i+1, place.Name)
		fmt.Printf("   Rating: %g (%d reviews)\n", place.Rating, place.ReviewCount)
		fmt.Printf("   Credibility score: %g\n", place.Score)
		if place.Price != "" {
			fmt.Printf("   Price: %s\n", place.Price)
		}
		fmt.Printf("   Distance: %dm (%.1fkm)\n", place.DistanceM, float64(place.DistanceM)/1000)
		if place.Address != "" {
			fmt.Printf("   Address: %s\n", place.Address)
		}
		fmt.Printf("   URL: %s\n", place.URL)
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println(data.Attribution)
	fmt.Println(strings.Repeat("=", 70))

	save := prompt(reader, "\nSave results to file? (y/n)", "n")
	if save == "y" || save == "yes" {
		filename := prompt(reader, "Filename", "results.json")
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			fmt.Printf("Failed to encode results: %v\n", err)
			return
		}
		if err := os.WriteFile(filename, out, 0644); err != nil {
			fmt.Printf("Failed to save: %v\n", err)
			return
		}
		fmt.Printf("Saved %d results to %s\n", len(data.Results), filename)
	}
}

func showExamples() {
	fmt.Println("\nEXAMPLE SEARCHES:")
	fmt.Println()

	examples := []struct {
		name   string
		params string
	}{
		{"Ottawa Shawarma", "term=shawarma, lat=45.4215, lng=-75.6972, radius=10km"},
		{"Toronto Sushi", "term=sushi, lat=43.6532, lng=-79.3832, radius=5km"},
		{"Montreal Coffee (Budget)", "term=coffee, lat=45.5017, lng=-73.5673, price=1,2"},
		{"Vancouver Pizza (Open Now)", "term=pizza, lat=49.2827, lng=-123.1207, open_now=true"},
	}

	for i, ex := range examples {
		fmt.Printf("%d. %s\n   %s\n\n", i+1, ex.name, ex.params)
	}
}
