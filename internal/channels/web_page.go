package channels

const indexPage = `<!DOCTYPE html>
<html>
<head>
  <title>TableMind</title>
  <meta charset="utf-8">
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: system-ui, sans-serif;
      background: #f0f2f5;
      height: 100vh;
      display: flex;
      justify-content: center;
      align-items: center;
    }
    .container {
      width: 90%;
      max-width: 800px;
      background: white;
      border-radius: 12px;
      box-shadow: 0 8px 30px rgba(0,0,0,0.12);
      overflow: hidden;
    }
    .header {
      background: #1f2937;
      color: white;
      padding: 16px 20px;
    }
    .header h1 { font-size: 20px; }
    .header p { opacity: 0.8; font-size: 13px; }
    .chat {
      height: 420px;
      overflow-y: auto;
      padding: 20px;
      background: #f8f9fa;
    }
    .message {
      margin: 10px 0;
      padding: 10px 14px;
      border-radius: 10px;
      max-width: 75%;
      word-wrap: break-word;
    }
    .user { background: #1f2937; color: white; margin-left: auto; }
    .agent { background: white; border: 1px solid #e0e0e0; margin-right: auto; }
    .agent pre { background: #f5f5f5; padding: 8px; border-radius: 4px; overflow-x: auto; margin: 8px 0; }
    .agent img { max-width: 100%; margin: 8px 0; border-radius: 6px; }
    .status { color: #6b7280; font-style: italic; font-size: 13px; }
    .error { color: #b91c1c; }
    .input-row {
      padding: 16px 20px;
      background: white;
      border-top: 1px solid #e0e0e0;
      display: flex;
      gap: 10px;
    }
    input {
      flex: 1;
      padding: 10px 14px;
      border: 1px solid #d1d5db;
      border-radius: 8px;
      font-size: 14px;
      outline: none;
    }
    button {
      padding: 10px 20px;
      border: none;
      border-radius: 8px;
      background: #1f2937;
      color: white;
      font-size: 14px;
      cursor: pointer;
    }
    button:disabled { opacity: 0.5; cursor: default; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>TableMind</h1>
      <p>Ask questions about your CSV data</p>
    </div>
    <div class="chat" id="chat"></div>
    <div class="input-row">
      <input type="text" id="message" placeholder="Ask about your data..." autofocus>
      <button id="send">Send</button>
    </div>
  </div>
  <script>
    const chat = document.getElementById('chat');
    const input = document.getElementById('message');
    const send = document.getElementById('send');
    let statusEl = null;

    const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
    const ws = new WebSocket(proto + '//' + location.host + '/ws');

    function addMessage(cls, html) {
      const div = document.createElement('div');
      div.className = 'message ' + cls;
      div.innerHTML = html;
      chat.appendChild(div);
      chat.scrollTop = chat.scrollHeight;
      return div;
    }

    function clearStatus() {
      if (statusEl) { statusEl.remove(); statusEl = null; }
    }

    ws.onmessage = (event) => {
      const data = JSON.parse(event.data);
      if (data.type === 'status') {
        clearStatus();
        statusEl = addMessage('agent status', data.content);
      } else if (data.type === 'response') {
        clearStatus();
        addMessage('agent', data.content);
        send.disabled = false;
      } else if (data.type === 'error') {
        clearStatus();
        addMessage('agent error', data.content);
        send.disabled = false;
      }
    };

    function submit() {
      const text = input.value.trim();
      if (!text || ws.readyState !== WebSocket.OPEN) return;
      addMessage('user', text.replace(/&/g, '&amp;').replace(/</g, '&lt;'));
      ws.send(JSON.stringify({type: 'message', content: text}));
      input.value = '';
      send.disabled = true;
    }

    send.addEventListener('click', submit);
    input.addEventListener('keydown', (e) => { if (e.key === 'Enter') submit(); });
  </script>
</body>
</html>
`
