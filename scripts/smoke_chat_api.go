package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const (
	baseURL   = "http://localhost:3000"
	sessionID = "smoke_test_session"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper for the JSON endpoints
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout, streaming can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

// Stream helper: POSTs a chat request and prints chunks as they arrive
func streamChat(message string, extra map[string]interface{}) error {
	payload := map[string]interface{}{
		"message":    message,
		"session_id": sessionID,
	}
	for k, v := range extra {
		payload[k] = v
	}
	jsonBody, _ := json.Marshal(payload)

	resp, err := http.Post(baseURL+"/api/chat/v1/stream", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	color.Green("Status: %s", resp.Status)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp map[string]interface{}
		json.Unmarshal(body, &errResp)
		prettyPrint(errResp)
		return fmt.Errorf("stream request rejected: %s", resp.Status)
	}

	reader := bufio.NewReader(resp.Body)
	buf := make([]byte, 512)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			fmt.Print(string(buf[:n]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	fmt.Println()
	return nil
}

func main() {
	color.Cyan("🚀 Starting Course Chat API Smoke Test\n")

	// 1. Health Check
	color.Yellow("\n[1] Health Check")
	resp, body, err := sendRequest("GET", "/health", nil)
	if err != nil {
		color.Red("Failed: %v (is the server running?)", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var healthResp map[string]interface{}
	json.Unmarshal(body, &healthResp)
	prettyPrint(healthResp)

	// 2. First Turn (no history, raw query goes straight to retrieval)
	color.Yellow("\n[2] Stream Chat: First Turn")
	if err := streamChat("What is informed consent?", nil); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	// 3. Follow-up Turn (reformulation against the stored history)
	color.Yellow("\n[3] Stream Chat: Follow-up Turn")
	if err := streamChat("Can you give an example?", nil); err != nil {
		color.Red("Failed: %v", err)
	}

	// 4. Session History (should hold 4 turns now)
	color.Yellow("\n[4] Get Session History")
	resp, body, err = sendRequest("GET", "/api/chat/v1/session/"+sessionID+"/history", nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var historyResp map[string]interface{}
		json.Unmarshal(body, &historyResp)
		if data, ok := historyResp["data"].(map[string]interface{}); ok {
			if turns, ok := data["turns"].([]interface{}); ok {
				fmt.Printf("Turns: %d\n", len(turns))
			}
		}
		prettyPrint(historyResp)
	}

	// 5. Filtered Chat (a filter that matches nothing still answers gracefully)
	color.Yellow("\n[5] Stream Chat: Filter With No Matches")
	if err := streamChat("What does chapter 99 say?", map[string]interface{}{
		"doc_path": "chapter99.pdf",
		"pages":    []int{999},
	}); err != nil {
		color.Red("Failed: %v", err)
	}

	// 6. Delete Session
	color.Yellow("\n[6] Delete Session")
	resp, body, err = sendRequest("DELETE", "/api/chat/v1/session/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var deleteResp map[string]interface{}
		json.Unmarshal(body, &deleteResp)
		prettyPrint(deleteResp)
	}

	// 7. History After Delete (should be empty)
	color.Yellow("\n[7] Get Session History After Delete")
	resp, body, err = sendRequest("GET", "/api/chat/v1/session/"+sessionID+"/history", nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var historyResp map[string]interface{}
		json.Unmarshal(body, &historyResp)
		if data, ok := historyResp["data"].(map[string]interface{}); ok {
			if turns, ok := data["turns"].([]interface{}); ok {
				if len(turns) == 0 {
					color.Green("History is empty as expected")
				} else {
					color.Red("Expected empty history, got %d turns", len(turns))
				}
			}
		}
	}

	color.Cyan("\n✅ Smoke Test Sequence Complete")
}
