// Package refind provides a Go client for the refind lost-and-found
// matching service HTTP API.
//
//	client := refind.New("http://localhost:8080", refind.WithAPIKey("secret"))
//
//	item, _ := client.Items().Create(ctx, refind.NewItem{
//	    OwnerID:     "user-42",
//	    Kind:        refind.KindLost,
//	    Title:       "red leather wallet",
//	    Description: "brown trim, cards inside",
//	    Location:    "Central Park",
//	})
//
//	matches, _ := client.Items().Matches(ctx, item.ID)
//	inbox, _ := client.Notifications().List(ctx, "user-42", 1, 10)
package refind
