package worker

import "fmt"

// Event handlers render and send the notification emails. Offer events mail
// both parties; password changes mail only the account owner. Subjects and
// bodies mirror the templates customers already receive.

func (c *NotificationConsumer) handlePasswordChanged(data map[string]string) {
	body := fmt.Sprintf(`<html>
<body>
	<h2>Password Changed</h2>
	<p>Hello %s,</p>
	<p>Your password has been successfully changed.</p>
	<p>If you did not make this change, please contact support immediately.</p>
	<br>
	<p>Best regards,<br>Video Game Trading Team</p>
</body>
</html>`, data["user_name"])

	c.send(data["user_email"], "Password Changed - Video Game Trading", body)
}

func (c *NotificationConsumer) handleTradeOfferCreated(data map[string]string) {
	offererBody := fmt.Sprintf(`<html>
<body>
	<h2>Trade Offer Sent</h2>
	<p>Hello %s,</p>
	<p>You have successfully sent a trade offer:</p>
	<ul>
		<li><strong>You offer:</strong> %s</li>
		<li><strong>You request:</strong> %s</li>
		<li><strong>To:</strong> %s</li>
	</ul>
	<p>You will be notified when %s responds to your offer.</p>
	<br>
	<p>Best regards,<br>Video Game Trading Team</p>
</body>
</html>`, data["offerer_name"], data["offered_game"], data["requested_game"], data["receiver_name"], data["receiver_name"])

	receiverBody := fmt.Sprintf(`<html>
<body>
	<h2>New Trade Offer Received</h2>
	<p>Hello %s,</p>
	<p>You have received a new trade offer from %s:</p>
	<ul>
		<li><strong>They offer:</strong> %s</li>
		<li><strong>They request:</strong> %s</li>
	</ul>
	<p>Please log in to your account to accept or reject this offer.</p>
	<br>
	<p>Best regards,<br>Video Game Trading Team</p>
</body>
</html>`, data["receiver_name"], data["offerer_name"], data["offered_game"], data["requested_game"])

	c.send(data["offerer_email"], "Trade Offer Sent - Video Game Trading", offererBody)
	c.send(data["receiver_email"], "New Trade Offer Received - Video Game Trading", receiverBody)
}

func (c *NotificationConsumer) handleTradeOfferAccepted(data map[string]string) {
	offererBody := fmt.Sprintf(`<html>
<body>
	<h2>Trade Offer Accepted!</h2>
	<p>Hello %s,</p>
	<p>Great news! %s has accepted your trade offer:</p>
	<ul>
		<li><strong>You offer:</strong> %s</li>
		<li><strong>You receive:</strong> %s</li>
	</ul>
	<p>Please coordinate with %s to complete the trade.</p>
	<br>
	<p>Best regards,<br>Video Game Trading Team</p>
</body>
</html>`, data["offerer_name"], data["receiver_name"], data["offered_game"], data["requested_game"], data["receiver_name"])

	receiverBody := fmt.Sprintf(`<html>
<body>
	<h2>Trade Offer Accepted</h2>
	<p>Hello %s,</p>
	<p>You have accepted the trade offer from %s:</p>
	<ul>
		<li><strong>You receive:</strong> %s</li>
		<li><strong>You offer:</strong> %s</li>
	</ul>
	<p>Please coordinate with %s to complete the trade.</p>
	<br>
	<p>Best regards,<br>Video Game Trading Team</p>
</body>
</html>`, data["receiver_name"], data["offerer_name"], data["offered_game"], data["requested_game"], data["offerer_name"])

	c.send(data["offerer_email"], "Trade Offer Accepted - Video Game Trading", offererBody)
	c.send(data["receiver_email"], "Trade Offer Accepted - Video Game Trading", receiverBody)
}

func (c *NotificationConsumer) handleTradeOfferRejected(data map[string]string) {
	offererBody := fmt.Sprintf(`<html>
<body>
	<h2>Trade Offer Rejected</h2>
	<p>Hello %s,</p>
	<p>%s has declined your trade offer:</p>
	<ul>
		<li><strong>You offered:</strong> %s</li>
		<li><strong>You requested:</strong> %s</li>
	</ul>
	<p>You can browse other games and make new trade offers.</p>
	<br>
	<p>Best regards,<br>Video Game Trading Team</p>
</body>
</html>`, data["offerer_name"], data["receiver_name"], data["offered_game"], data["requested_game"])

	receiverBody := fmt.Sprintf(`<html>
<body>
	<h2>Trade Offer Rejected</h2>
	<p>Hello %s,</p>
	<p>You have rejected the trade offer from %s:</p>
	<ul>
		<li><strong>They offered:</strong> %s</li>
		<li><strong>They requested:</strong> %s</li>
	</ul>
	<br>
	<p>Best regards,<br>Video Game Trading Team</p>
</body>
</html>`, data["receiver_name"], data["offerer_name"], data["offered_game"], data["requested_game"])

	c.send(data["offerer_email"], "Trade Offer Rejected - Video Game Trading", offererBody)
	c.send(data["receiver_email"], "Trade Offer Rejected - Video Game Trading", receiverBody)
}
