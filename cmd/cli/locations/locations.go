package locations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okarhu/locboard/cmd/cli/config"
	"github.com/okarhu/locboard/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// Init Locations
// ==========================
func InitLocations(rootCmd *cobra.Command) {

	locationsCmd := &cobra.Command{
		Use:   "locations",
		Short: "Post, edit, visit and list locations",
	}

	locationsCmd.AddCommand(
		listCmd(),
		topFiveCmd(),
		postCmd(),
		editCmd(),
		visitCmd(),
	)

	rootCmd.AddCommand(locationsCmd)
}

// ==========================
// LIST
// ==========================
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all locations",
		RunE: func(cmd *cobra.Command, args []string) error {

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return nil
			}

			req, _ := http.NewRequest("GET", config.APIURL()+"/info", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNoContent {
				fmt.Println("No locations posted yet.")
				return nil
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d", resp.StatusCode)
			}

			var entries []struct {
				ID          int      `json:"locationID"`
				Name        string   `json:"locationName"`
				City        string   `json:"locationCity"`
				Country     string   `json:"locationCountry"`
				Poster      string   `json:"originalPoster"`
				PostingTime string   `json:"originalPostingTime"`
				Weather     *int     `json:"weather"`
				Latitude    *float64 `json:"latitude"`
				Longitude   *float64 `json:"longitude"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				weather := ""
				if e.Weather != nil {
					weather = strconv.Itoa(*e.Weather)
				}
				coords := ""
				if e.Latitude != nil && e.Longitude != nil {
					coords = fmt.Sprintf("%.4f,%.4f", *e.Latitude, *e.Longitude)
				}
				rows = append(rows, []interface{}{
					e.ID, e.Name, e.City, e.Country, e.Poster, e.PostingTime, coords, weather,
				})
			}

			output.RenderTable(
				[]string{"ID", "Name", "City", "Country", "Poster", "Posted", "Coordinates", "Weather"},
				rows,
			)
			return nil
		},
	}
}

// ==========================
// TOP FIVE
// ==========================
func topFiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topfive",
		Short: "Show the five most visited locations",
		RunE: func(cmd *cobra.Command, args []string) error {

			resp, err := http.Get(config.APIURL() + "/topfive")
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNoContent {
				fmt.Println("No locations posted yet.")
				return nil
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d", resp.StatusCode)
			}

			var top []struct {
				ID           int    `json:"locationID"`
				Name         string `json:"locationName"`
				TimesVisited int    `json:"timesVisited"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&top); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(top))
			for _, t := range top {
				rows = append(rows, []interface{}{t.ID, t.Name, t.TimesVisited})
			}

			output.RenderTable([]string{"ID", "Name", "Visits"}, rows)
			return nil
		},
	}
}

// ==========================
// POST
// ==========================
func postCmd() *cobra.Command {

	var name, description, city, country, street, postingTime string
	var latitude, longitude float64
	var withWeather bool

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a new location",
		RunE: func(cmd *cobra.Command, args []string) error {

			payload := map[string]interface{}{
				"locationName":          name,
				"locationDescription":   description,
				"locationCity":          city,
				"locationCountry":       country,
				"locationStreetAddress": street,
				"originalPostingTime":   postingTime,
			}
			if latitude != 0 || longitude != 0 {
				payload["latitude"] = latitude
				payload["longitude"] = longitude
			}
			// The server enables enrichment on key presence alone.
			if withWeather {
				payload["weather"] = true
			}

			return postMessage(payload)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "location name")
	cmd.Flags().StringVar(&description, "description", "", "location description")
	cmd.Flags().StringVar(&city, "city", "", "city")
	cmd.Flags().StringVar(&country, "country", "", "country")
	cmd.Flags().StringVar(&street, "street", "", "street address")
	cmd.Flags().StringVar(&postingTime, "time", "", `posting time, e.g. "2024-01-15T10:30:00.000Z"`)
	cmd.Flags().Float64Var(&latitude, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&longitude, "lon", 0, "longitude")
	cmd.Flags().BoolVar(&withWeather, "weather", false, "request weather enrichment in listings")

	return cmd
}

// ==========================
// EDIT
// ==========================
func editCmd() *cobra.Command {

	var id int
	var reason, name, description, city, country, street, postingTime string
	var latitude, longitude float64

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit an existing location",
		RunE: func(cmd *cobra.Command, args []string) error {

			payload := map[string]interface{}{
				"locationID":            id,
				"updatereason":          reason,
				"locationName":          name,
				"locationDescription":   description,
				"locationCity":          city,
				"locationCountry":       country,
				"locationStreetAddress": street,
				"originalPostingTime":   postingTime,
			}
			if latitude != 0 || longitude != 0 {
				payload["latitude"] = latitude
				payload["longitude"] = longitude
			}

			return postMessage(payload)
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "location id")
	cmd.Flags().StringVar(&reason, "reason", "", "reason for the edit")
	cmd.Flags().StringVar(&name, "name", "", "location name")
	cmd.Flags().StringVar(&description, "description", "", "location description")
	cmd.Flags().StringVar(&city, "city", "", "city")
	cmd.Flags().StringVar(&country, "country", "", "country")
	cmd.Flags().StringVar(&street, "street", "", "street address")
	cmd.Flags().StringVar(&postingTime, "time", "", "original posting time")
	cmd.Flags().Float64Var(&latitude, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&longitude, "lon", 0, "longitude")

	return cmd
}

// ==========================
// VISIT
// ==========================
func visitCmd() *cobra.Command {

	var visitor string

	cmd := &cobra.Command{
		Use:   "visit [id]",
		Short: "Record a visit to a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid location id: %q", args[0])
			}

			payload := map[string]interface{}{
				"locationID":      id,
				"locationVisitor": visitor,
			}

			return postMessage(payload)
		},
	}

	cmd.Flags().StringVar(&visitor, "visitor", "", "visitor name")

	return cmd
}

func postMessage(payload map[string]interface{}) error {
	token, err := config.ReadToken()
	if err != nil {
		fmt.Println("Please login first")
		return nil
	}

	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", config.APIURL()+"/info", bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var out struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&out)
		return fmt.Errorf("status %d: %s", resp.StatusCode, out.Error)
	}

	fmt.Println("OK")
	return nil
}
